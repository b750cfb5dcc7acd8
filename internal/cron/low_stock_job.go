package cron

import (
	"context"
	"fmt"

	"github.com/pkock/brewhub-backend/pkg/db/models"
	"github.com/pkock/brewhub-backend/pkg/logger"
)

type lowStockReader interface {
	ListLowStock(ctx context.Context) ([]models.Ingredient, error)
}

// NewLowStockJob builds the job that logs a per-retailer report of active
// ingredients at or below their low stock threshold.
func NewLowStockJob(logg *logger.Logger, inventory lowStockReader) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory reader required")
	}
	return &lowStockJob{logg: logg, inventory: inventory}, nil
}

type lowStockJob struct {
	logg      *logger.Logger
	inventory lowStockReader
}

func (j *lowStockJob) Name() string { return "low-stock-report" }

func (j *lowStockJob) Run(ctx context.Context) error {
	rows, err := j.inventory.ListLowStock(ctx)
	if err != nil {
		return fmt.Errorf("query low stock ingredients: %w", err)
	}
	perRetailer := make(map[string]int)
	for _, row := range rows {
		perRetailer[row.RetailerID.String()]++
		itemCtx := j.logg.WithFields(ctx, map[string]any{
			"retailer_id":   row.RetailerID,
			"ingredient_id": row.ID,
			"name":          row.Name,
			"quantity":      row.Quantity,
			"threshold":     row.LowStockThreshold,
		})
		j.logg.Warn(itemCtx, "ingredient at or below low stock threshold")
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"ingredients": len(rows),
		"retailers":   len(perRetailer),
	})
	j.logg.Info(logCtx, "low stock report complete")
	return nil
}
