package floorplan

import (
	"context"
	"errors"

	"github.com/appetiteclub/floorplan/services/floorplan/internal/plan"
	"github.com/google/uuid"
)

var ErrPlanNotFound = errors.New("plan not found")

// PlanRepo persists saved plan snapshots. Get and GetByName return nil, nil
// when nothing is stored.
type PlanRepo interface {
	Create(ctx context.Context, p *plan.Plan) error
	Get(ctx context.Context, id uuid.UUID) (*plan.Plan, error)
	GetByName(ctx context.Context, name string) (*plan.Plan, error)
	List(ctx context.Context) ([]*plan.Plan, error)
	Save(ctx context.Context, p *plan.Plan) error
	Delete(ctx context.Context, id uuid.UUID) error
}
