// Package seed loads development fixtures from a YAML file and applies them
// through the real services, so seeded data passes the same validation and
// fulfillment rules as API traffic.
package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/stockroomhq/stockroom/internal/auth"
	"github.com/stockroomhq/stockroom/internal/catalog"
	"github.com/stockroomhq/stockroom/internal/orders"
)

// Fixture is the root of a seed file.
type Fixture struct {
	Organizations []OrganizationFixture `yaml:"organizations"`
}

// OrganizationFixture declares an organization, its admin user, and its
// initial catalog and orders.
type OrganizationFixture struct {
	Name     string           `yaml:"name"`
	Admin    AdminFixture     `yaml:"admin"`
	Products []ProductFixture `yaml:"products"`
	Orders   []OrderFixture   `yaml:"orders"`
}

// AdminFixture is the organization's first user, created via signup.
type AdminFixture struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// ProductFixture declares a catalog product. A missing quantity key means
// untracked stock.
type ProductFixture struct {
	Name        string  `yaml:"name"`
	Description *string `yaml:"description"`
	Price       float64 `yaml:"price"`
	Quantity    *int64  `yaml:"quantity"`
}

// OrderFixture places an order against a product declared in the same
// organization, referenced by name.
type OrderFixture struct {
	Product  string `yaml:"product"`
	Quantity int64  `yaml:"quantity"`
}

// Load reads and parses a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}

	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse fixture file: %w", err)
	}

	return &fixture, nil
}

// Apply creates the fixture's organizations, products, and orders through
// the given services.
func (f *Fixture) Apply(ctx context.Context, authSvc *auth.Service, catalogSvc *catalog.Service, engine *orders.Engine) error {
	for _, org := range f.Organizations {
		_, admin, err := authSvc.Signup(ctx, org.Admin.Email, org.Admin.Password, org.Name)
		if err != nil {
			return fmt.Errorf("failed to seed organization %q: %w", org.Name, err)
		}

		productIDs := make(map[string]uuid.UUID, len(org.Products))

		for _, p := range org.Products {
			product, err := catalogSvc.Create(ctx, admin.OrgID, catalog.CreateProduct{
				Name:        p.Name,
				Description: p.Description,
				Price:       p.Price,
				Quantity:    p.Quantity,
			})
			if err != nil {
				return fmt.Errorf("failed to seed product %q in %q: %w", p.Name, org.Name, err)
			}

			productIDs[p.Name] = product.ProductID
		}

		for _, o := range org.Orders {
			productID, ok := productIDs[o.Product]
			if !ok {
				return fmt.Errorf("order references unknown product %q in %q", o.Product, org.Name)
			}

			if _, err := engine.Place(ctx, admin.OrgID, productID, o.Quantity); err != nil {
				return fmt.Errorf("failed to seed order for %q in %q: %w", o.Product, org.Name, err)
			}
		}

		log.Info().
			Str("organization", org.Name).
			Int("products", len(org.Products)).
			Int("orders", len(org.Orders)).
			Msg("Seeded organization")
	}

	return nil
}
