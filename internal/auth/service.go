package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/stockroomhq/stockroom/internal/models"
	"github.com/stockroomhq/stockroom/internal/store"
	"github.com/stockroomhq/stockroom/internal/telemetry"
)

var (
	// ErrInvalidCredentials is returned for any failed login: unknown
	// email, wrong password, or deactivated user. One error for all three
	// so login can't be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Signup validation errors
	ErrEmailRequired        = errors.New("email is required")
	ErrPasswordTooShort     = errors.New("password must be at least 8 characters")
	ErrOrganizationRequired = errors.New("organization name is required")
)

// Service handles signup and login. Signup is the only flow that creates
// organizations: the new organization and its first (admin) user commit in
// one transaction, so a user row can never reference an organization that
// was rolled back.
type Service struct {
	orgs   store.OrganizationStore
	users  store.UserStore
	tx     store.TxManager
	tokens *TokenIssuer
}

// NewService creates an auth service over the given stores and token issuer.
func NewService(orgs store.OrganizationStore, users store.UserStore, tx store.TxManager, tokens *TokenIssuer) *Service {
	return &Service{
		orgs:   orgs,
		users:  users,
		tx:     tx,
		tokens: tokens,
	}
}

// Signup registers a new organization with its first user and returns an
// access token for that user. The first user is always an active admin.
// Duplicate email or organization name surfaces as the store's
// AlreadyExists sentinel.
func (s *Service) Signup(ctx context.Context, email, password, orgName string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	orgName = strings.TrimSpace(orgName)

	if email == "" {
		return "", nil, ErrEmailRequired
	}
	if len(password) < 8 {
		return "", nil, ErrPasswordTooShort
	}
	if orgName == "" {
		return "", nil, ErrOrganizationRequired
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	org := &models.Organization{
		OrgID:     uuid.Must(uuid.NewV7()),
		Name:      orgName,
		CreatedAt: now,
	}
	user := &models.User{
		UserID:       uuid.Must(uuid.NewV7()),
		OrgID:        org.OrgID,
		Email:        email,
		PasswordHash: hash,
		Active:       true,
		Admin:        true,
		CreatedAt:    now,
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		// Uniqueness checks run before the first write so a duplicate
		// email can't leave behind an organization whose name is already
		// consumed. The memory transaction manager has no rollback; the
		// unique constraints still backstop this on postgres.
		if _, err := s.orgs.GetByName(ctx, orgName); err == nil {
			return store.ErrOrganizationAlreadyExists
		} else if !errors.Is(err, store.ErrOrganizationNotFound) {
			return err
		}
		if _, err := s.users.GetByEmail(ctx, email); err == nil {
			return store.ErrEmailAlreadyExists
		} else if !errors.Is(err, store.ErrUserNotFound) {
			return err
		}

		if err := s.orgs.Create(ctx, org); err != nil {
			return err
		}
		return s.users.Create(ctx, user)
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.UserID)
	if err != nil {
		return "", nil, err
	}

	log.Info().
		Str("org_id", org.OrgID.String()).
		Str("user_id", user.UserID.String()).
		Str("org_name", org.Name).
		Msg("Organization signed up")

	telemetry.GetMetrics().RecordSignup(ctx)

	return token, user, nil
}

// Login authenticates an email/password pair and returns an access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !user.Active || !VerifyPassword(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.UserID)
	if err != nil {
		return "", nil, err
	}

	log.Debug().
		Str("user_id", user.UserID.String()).
		Msg("User logged in")

	return token, user, nil
}

// ResolveIdentity verifies a bearer token and loads the acting identity.
// Unknown or deactivated users fail with ErrInvalidToken regardless of how
// the token itself checks out.
func (s *Service) ResolveIdentity(ctx context.Context, token string) (*Identity, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if !user.Active {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID: user.UserID,
		OrgID:  user.OrgID,
		Admin:  user.Admin,
	}, nil
}
