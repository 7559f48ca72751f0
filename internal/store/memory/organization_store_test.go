package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/stockroomhq/stockroom/internal/models"
	"github.com/stockroomhq/stockroom/internal/store"
)

func TestMemoryOrganizationStore(t *testing.T) {
	t.Run("create and get by id and name", func(t *testing.T) {
		st := NewOrganizationStore()
		ctx := context.Background()

		org := &models.Organization{
			OrgID:     uuid.Must(uuid.NewV7()),
			Name:      "Acme",
			CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, st.Create(ctx, org))

		byID, err := st.Get(ctx, org.OrgID)
		require.NoError(t, err)
		require.Equal(t, "Acme", byID.Name)

		byName, err := st.GetByName(ctx, "Acme")
		require.NoError(t, err)
		require.Equal(t, org.OrgID, byName.OrgID)
	})

	t.Run("duplicate name returns already exists", func(t *testing.T) {
		st := NewOrganizationStore()
		ctx := context.Background()

		org := &models.Organization{OrgID: uuid.Must(uuid.NewV7()), Name: "Acme", CreatedAt: time.Now().UTC()}
		require.NoError(t, st.Create(ctx, org))

		dup := &models.Organization{OrgID: uuid.Must(uuid.NewV7()), Name: "Acme", CreatedAt: time.Now().UTC()}
		err := st.Create(ctx, dup)
		require.ErrorIs(t, err, store.ErrOrganizationAlreadyExists)
	})

	t.Run("missing organization returns not found", func(t *testing.T) {
		st := NewOrganizationStore()
		ctx := context.Background()

		_, err := st.Get(ctx, uuid.Must(uuid.NewV7()))
		require.ErrorIs(t, err, store.ErrOrganizationNotFound)

		_, err = st.GetByName(ctx, "Nobody")
		require.ErrorIs(t, err, store.ErrOrganizationNotFound)
	})
}

func TestMemoryUserStore(t *testing.T) {
	t.Run("create and get by id and email", func(t *testing.T) {
		st := NewUserStore()
		ctx := context.Background()

		user := &models.User{
			UserID:       uuid.Must(uuid.NewV7()),
			OrgID:        uuid.Must(uuid.NewV7()),
			Email:        "admin@acme.test",
			PasswordHash: "hash",
			Active:       true,
			Admin:        true,
			CreatedAt:    time.Now().UTC(),
		}
		require.NoError(t, st.Create(ctx, user))

		byID, err := st.Get(ctx, user.UserID)
		require.NoError(t, err)
		require.Equal(t, "admin@acme.test", byID.Email)

		byEmail, err := st.GetByEmail(ctx, "admin@acme.test")
		require.NoError(t, err)
		require.Equal(t, user.UserID, byEmail.UserID)
		require.True(t, byEmail.Admin)
	})

	t.Run("duplicate email returns already exists", func(t *testing.T) {
		st := NewUserStore()
		ctx := context.Background()

		user := &models.User{UserID: uuid.Must(uuid.NewV7()), Email: "admin@acme.test"}
		require.NoError(t, st.Create(ctx, user))

		dup := &models.User{UserID: uuid.Must(uuid.NewV7()), Email: "admin@acme.test"}
		err := st.Create(ctx, dup)
		require.ErrorIs(t, err, store.ErrEmailAlreadyExists)
	})

	t.Run("missing user returns not found", func(t *testing.T) {
		st := NewUserStore()
		ctx := context.Background()

		_, err := st.Get(ctx, uuid.Must(uuid.NewV7()))
		require.ErrorIs(t, err, store.ErrUserNotFound)

		_, err = st.GetByEmail(ctx, "nobody@acme.test")
		require.ErrorIs(t, err, store.ErrUserNotFound)
	})
}
