package services

import (
	"context"

	"github.com/Nahnamehran/study-planner/models"
)

// Store persists users and plan records. Writes are last-write-wins.
// Lookups of unknown ids return an error wrapping models.ErrNotFound.
type Store interface {
	UpsertUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	SavePlan(ctx context.Context, record *models.PlanRecord) error
	GetPlan(ctx context.Context, id string) (*models.PlanRecord, error)
	ListPlans(ctx context.Context, ownerID string) ([]models.PlanRecord, error)
}
