package monitor

import (
	"context"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/domain"
)

type AlertSource interface {
	GetAlerts(ctx context.Context) ([]domain.Product, error)
}

// Notifier is told about products that just dropped below the low-stock threshold.
type Notifier interface {
	Notify(ctx context.Context, products []domain.Product) error
}

type ConnectionTester interface {
	TestConnection(ctx context.Context) bool
}
