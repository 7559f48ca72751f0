package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/stockroomhq/stockroom/internal/models"
	"github.com/stockroomhq/stockroom/internal/store"
	"github.com/stockroomhq/stockroom/internal/telemetry"
)

// ErrInvalidQuantity is returned when the requested order quantity is not a
// positive integer.
var ErrInvalidQuantity = errors.New("order quantity must be positive")

// maxPlaceAttempts bounds retries of the place transaction when the store
// reports a transient serialization conflict.
const maxPlaceAttempts = 3

// Engine implements order placement and fulfillment. It is the only writer
// of product stock besides the catalog service and the only writer of an
// order's fulfilled flag.
//
// Fulfillment rule: an order is fulfilled iff its product tracks stock and
// had at least the requested quantity available at evaluation time, in which
// case the stock is decremented by exactly that quantity in the same
// transaction. Untracked products never fulfill.
type Engine struct {
	products store.ProductStore
	orders   store.OrderStore
	tx       store.TxManager
}

// NewEngine creates an order engine over the given stores.
func NewEngine(products store.ProductStore, orders store.OrderStore, tx store.TxManager) *Engine {
	return &Engine{
		products: products,
		orders:   orders,
		tx:       tx,
	}
}

// Place creates an order for qty units of a product within the caller's
// organization.
//
// The product must belong to orgID; a product in another organization is
// reported as not found, identical to a missing one. TotalPrice snapshots
// qty x unit price at placement and is never recomputed. The stock check,
// the decrement, and the order insert commit as one atomic unit: either the
// fulfilled order and the reduced stock are both durable, or neither is.
//
// Transient transaction conflicts are retried a bounded number of times
// with exponential backoff before the error surfaces.
func (e *Engine) Place(ctx context.Context, orgID, productID uuid.UUID, qty int64) (*models.Order, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	order, err := backoff.Retry(ctx, func() (*models.Order, error) {
		order, err := e.placeOnce(ctx, orgID, productID, qty)
		if err != nil && !errors.Is(err, store.ErrTxConflict) {
			return nil, backoff.Permanent(err)
		}
		return order, err
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(maxPlaceAttempts))
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("order_id", order.OrderID.String()).
		Str("org_id", orgID.String()).
		Str("product_id", productID.String()).
		Int64("qty", qty).
		Bool("fulfilled", order.Fulfilled).
		Msg("Placed order")

	telemetry.GetMetrics().RecordOrderPlaced(ctx, order.Fulfilled)

	return order, nil
}

func (e *Engine) placeOnce(ctx context.Context, orgID, productID uuid.UUID, qty int64) (*models.Order, error) {
	var order *models.Order

	err := e.tx.WithTx(ctx, func(ctx context.Context) error {
		product, err := e.products.Get(ctx, orgID, productID)
		if err != nil {
			return err
		}

		fulfilled := false
		if product.Tracked() {
			fulfilled, err = e.products.DecrementStock(ctx, orgID, productID, qty)
			if err != nil {
				return err
			}
		}

		order = &models.Order{
			OrderID:    uuid.Must(uuid.NewV7()),
			OrgID:      orgID,
			ProductID:  productID,
			Quantity:   qty,
			TotalPrice: float64(qty) * product.Price,
			Fulfilled:  fulfilled,
			OrderedAt:  time.Now().UTC(),
		}

		return e.orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// RecomputeFulfillment re-evaluates an unfulfilled order against current
// stock using the same rule as Place.
//
// An already-fulfilled order is returned unchanged: its stock was charged
// exactly once at fulfillment time, and re-running the decrement would
// double-charge it. Unfulfilling requires no supported operation.
func (e *Engine) RecomputeFulfillment(ctx context.Context, orgID, orderID uuid.UUID) (*models.Order, error) {
	var order *models.Order

	err := e.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error

		// Lock the order row so concurrent recomputes of the same order
		// serialize; the loser re-reads the fulfilled flag the winner
		// committed instead of decrementing stock a second time.
		order, err = e.orders.GetForUpdate(ctx, orgID, orderID)
		if err != nil {
			return err
		}

		if order.Fulfilled {
			return nil
		}

		product, err := e.products.Get(ctx, orgID, order.ProductID)
		if err != nil {
			return err
		}

		if !product.Tracked() {
			return nil
		}

		fulfilled, err := e.products.DecrementStock(ctx, orgID, order.ProductID, order.Quantity)
		if err != nil {
			return err
		}
		if !fulfilled {
			return nil
		}

		if err := e.orders.UpdateFulfillment(ctx, orgID, orderID, true); err != nil {
			return err
		}
		order.Fulfilled = true

		log.Info().
			Str("order_id", orderID.String()).
			Str("org_id", orgID.String()).
			Msg("Order fulfilled on recompute")

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to recompute fulfillment: %w", err)
	}

	return order, nil
}

// Get retrieves an order within the caller's organization.
func (e *Engine) Get(ctx context.Context, orgID, orderID uuid.UUID) (*models.Order, error) {
	return e.orders.Get(ctx, orgID, orderID)
}

// List returns all orders of the caller's organization, newest first.
func (e *Engine) List(ctx context.Context, orgID uuid.UUID) ([]*models.Order, error) {
	return e.orders.List(ctx, orgID)
}
