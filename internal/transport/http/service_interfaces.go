package http

import (
	"context"

	api "github.com/justas-b/ecommerce-dashboard/pkg/contracts/api/v1"
	"github.com/justas-b/ecommerce-dashboard/pkg/contracts/domain"
)

// DashboardServiceInterface is what the dashboard handlers need from the
// service layer
type DashboardServiceInterface interface {
	Overview(ctx context.Context) (domain.Overview, error)
	Winners(ctx context.Context) (domain.Winners, error)
	Figure(ctx context.Context, req api.ChartRequest) (domain.Figure, error)
}
