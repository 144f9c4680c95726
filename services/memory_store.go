package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Nahnamehran/study-planner/models"
	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps everything in a non-expiring go-cache. It backs STORE_BACKEND=memory and the tests.
type MemoryStore struct {
	mu    sync.Mutex
	items *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: cache.New(cache.NoExpiration, 0)}
}

func userKey(id string) string     { return "user:" + id }
func emailKey(email string) string { return "email:" + strings.ToLower(strings.TrimSpace(email)) }
func planKey(id string) string     { return "plan:" + id }

func (s *MemoryStore) UpsertUser(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, found := s.items.Get(emailKey(user.Email)); found {
		if existing, ok := s.items.Get(userKey(id.(string))); ok {
			u := existing.(models.User)
			return &u, nil
		}
	}
	s.items.Set(userKey(user.ID), *user, cache.NoExpiration)
	s.items.Set(emailKey(user.Email), user.ID, cache.NoExpiration)
	u := *user
	return &u, nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (*models.User, error) {
	v, found := s.items.Get(userKey(id))
	if !found {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	u := v.(models.User)
	return &u, nil
}

func (s *MemoryStore) SavePlan(_ context.Context, record *models.PlanRecord) error {
	s.items.Set(planKey(record.ID), record.Clone(), cache.NoExpiration)
	return nil
}

func (s *MemoryStore) GetPlan(_ context.Context, id string) (*models.PlanRecord, error) {
	v, found := s.items.Get(planKey(id))
	if !found {
		return nil, fmt.Errorf("plan %s: %w", id, models.ErrNotFound)
	}
	r := v.(models.PlanRecord).Clone()
	return &r, nil
}

func (s *MemoryStore) ListPlans(_ context.Context, ownerID string) ([]models.PlanRecord, error) {
	plans := make([]models.PlanRecord, 0)
	for key, item := range s.items.Items() {
		if !strings.HasPrefix(key, "plan:") {
			continue
		}
		r := item.Object.(models.PlanRecord)
		if r.OwnerID == ownerID {
			plans = append(plans, r.Clone())
		}
	}
	sortNewestFirst(plans)
	return plans, nil
}

func sortNewestFirst(plans []models.PlanRecord) {
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
}
