package plan

import (
	"context"

	"github.com/servicehq/servicehub/internal/types"
)

type Repository interface {
	Create(ctx context.Context, p *Plan) error
	Get(ctx context.Context, id string) (*Plan, error)
	GetByType(ctx context.Context, planType types.PlanType, durationMonths int) (*Plan, error)
	ListActive(ctx context.Context) ([]*Plan, error)
	Update(ctx context.Context, p *Plan) error
}
