package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/pkock/brewhub-backend/internal/orders"
	"github.com/pkock/brewhub-backend/pkg/db/models"
	"github.com/pkock/brewhub-backend/pkg/enums"
	"github.com/pkock/brewhub-backend/pkg/logger"
)

const defaultOrderExpiryAge = 10 * 24 * time.Hour

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// OrderExpiryJobParams configure the pending order expiry job.
type OrderExpiryJobParams struct {
	Logger    *logger.Logger
	DB        txRunner
	Repo      orders.Repository
	Inventory orders.InventoryControl
	MaxAge    time.Duration
}

// NewOrderExpiryJob builds the job that cancels pending orders older than
// MaxAge and returns their reserved stock to inventory.
func NewOrderExpiryJob(params OrderExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory control required")
	}
	maxAge := params.MaxAge
	if maxAge <= 0 {
		maxAge = defaultOrderExpiryAge
	}
	return &orderExpiryJob{
		logg:      params.Logger,
		db:        params.DB,
		repo:      params.Repo,
		inventory: params.Inventory,
		maxAge:    maxAge,
		now:       time.Now,
	}, nil
}

type orderExpiryJob struct {
	logg      *logger.Logger
	db        txRunner
	repo      orders.Repository
	inventory orders.InventoryControl
	maxAge    time.Duration
	now       func() time.Time
}

func (j *orderExpiryJob) Name() string { return "order-expiry" }

func (j *orderExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.maxAge)
	stale, err := j.repo.FindPendingBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("query stale pending orders: %w", err)
	}
	count := 0
	var errs []error
	for i := range stale {
		if err := j.expireOrder(ctx, stale[i].ID); err != nil {
			errs = append(errs, err)
			continue
		}
		count++
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": count, "failed": len(errs)})
	j.logg.Info(logCtx, "order expiry loop complete")
	return multierr.Combine(errs...)
}

func (j *orderExpiryJob) expireOrder(ctx context.Context, orderID uuid.UUID) error {
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := j.repo.WithTx(tx)
		current, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return fmt.Errorf("load order %s: %w", orderID, err)
		}
		// Re-check under the transaction; the retailer may have shipped
		// or the customer cancelled since the sweep query ran.
		if current.Status != enums.OrderStatusPending {
			return nil
		}
		if err := j.restock(ctx, tx, current.Items); err != nil {
			return err
		}
		if err := repo.UpdateStatus(ctx, current.ID, enums.OrderStatusCancelled); err != nil {
			return fmt.Errorf("cancel expired order %s: %w", current.ID, err)
		}
		return nil
	})
}

func (j *orderExpiryJob) restock(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error {
	for _, item := range items {
		if err := j.inventory.Release(ctx, tx, item.IngredientID, item.Quantity); err != nil {
			return fmt.Errorf("restore stock for ingredient %s: %w", item.IngredientID, err)
		}
	}
	return nil
}
