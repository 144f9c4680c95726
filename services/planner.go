package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Nahnamehran/study-planner/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	planCachePrefix     = "plan:"
	inFlightCachePrefix = "generating:"
	defaultInFlightTTL  = 5 * time.Minute
)

// PlannerService runs the generate pipeline and owns access to stored plans.
//
// Generation is: validate, build prompt, one completion call, normalize, persist.
// A plan that was generated but could not be persisted is still returned to the caller.
type PlannerService struct {
	completer Completer
	store     Store
	cache     *CacheService
	params    GenerationParams
	cacheTTL  time.Duration
	logger    *zap.Logger
	parser    *ParserService

	inFlight    *CacheService
	inFlightTTL time.Duration

	now   func() time.Time
	newID func() string

	// serialises read-modify-write on stored plans
	mu sync.Mutex
}

type PlannerOption func(*PlannerService)

func WithClock(now func() time.Time) PlannerOption {
	return func(s *PlannerService) { s.now = now }
}

func WithIDGenerator(newID func() string) PlannerOption {
	return func(s *PlannerService) { s.newID = newID }
}

func WithCacheTTL(ttl time.Duration) PlannerOption {
	return func(s *PlannerService) { s.cacheTTL = ttl }
}

func WithInFlightTTL(ttl time.Duration) PlannerOption {
	return func(s *PlannerService) { s.inFlightTTL = ttl }
}

// NewPlannerService wires the pipeline. completer may be nil, in which case
// every generation fails with models.ErrConfiguration.
func NewPlannerService(completer Completer, store Store, cache *CacheService, params GenerationParams, logger *zap.Logger, opts ...PlannerOption) *PlannerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = NewCacheService(10*time.Minute, 15*time.Minute)
	}
	s := &PlannerService{
		completer:   completer,
		store:       store,
		cache:       cache,
		params:      params,
		cacheTTL:    10 * time.Minute,
		logger:      logger,
		parser:      NewParserService(),
		inFlight:    NewCacheService(defaultInFlightTTL, 0),
		inFlightTTL: defaultInFlightTTL,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate produces and stores a new plan.
//
// guardKey identifies the requester; while a generation for the same key is running
// another call fails with models.ErrGenerationInFlight. An empty key disables the guard.
//
// On a persistence failure both the record and a *models.PersistenceError are returned.
func (s *PlannerService) Generate(ctx context.Context, ownerID, guardKey string, req models.PlanRequest, variant models.Variant) (*models.PlanRecord, error) {
	req = req.WithDefaults(s.now())
	prompt, err := BuildPrompt(req, variant)
	if err != nil {
		return nil, err
	}
	if s.completer == nil {
		return nil, fmt.Errorf("no ai provider configured: %w", models.ErrConfiguration)
	}

	if guardKey != "" {
		if !s.inFlight.Add(inFlightCachePrefix+guardKey, true, s.inFlightTTL) {
			return nil, models.ErrGenerationInFlight
		}
		defer s.inFlight.Delete(inFlightCachePrefix + guardKey)
	}

	start := s.now()
	raw, err := s.completer.Complete(ctx, prompt, s.params)
	if err != nil {
		s.logger.Warn("completion failed",
			zap.String("provider", s.completer.Name()),
			zap.String("variant", string(variant)),
			zap.Error(err))
		return nil, asTransportError(s.completer.Name(), err)
	}

	plan, err := Normalize(raw, variant)
	if err != nil {
		s.logger.Warn("malformed completion",
			zap.String("provider", s.completer.Name()),
			zap.Int("response_len", len(raw)),
			zap.Error(err))
		return nil, err
	}

	record := &models.PlanRecord{
		ID:        s.newID(),
		OwnerID:   ownerID,
		Request:   req,
		Plan:      *plan,
		CreatedAt: s.now().UTC(),
	}
	s.logger.Info("plan generated",
		zap.String("plan_id", record.ID),
		zap.String("variant", string(variant)),
		zap.Duration("elapsed", s.now().Sub(start)))

	s.cache.Set(planCachePrefix+record.ID, record.Clone(), s.cacheTTL)
	if err := s.save(ctx, record); err != nil {
		return record, err
	}
	return record, nil
}

// asTransportError keeps configuration errors intact and wraps everything else.
func asTransportError(provider string, err error) error {
	var te *models.TransportError
	if errors.Is(err, models.ErrConfiguration) || errors.As(err, &te) {
		return err
	}
	return &models.TransportError{Provider: provider, Err: err}
}

func (s *PlannerService) save(ctx context.Context, record *models.PlanRecord) error {
	if s.store == nil {
		return &models.PersistenceError{Op: "save plan", Err: errors.New("no store configured")}
	}
	if err := s.store.SavePlan(ctx, record); err != nil {
		s.logger.Error("failed to persist plan", zap.String("plan_id", record.ID), zap.Error(err))
		var pe *models.PersistenceError
		if errors.As(err, &pe) {
			return err
		}
		return &models.PersistenceError{Op: "save plan", Err: err}
	}
	return nil
}

// Get returns a copy of the plan, served from cache when possible.
func (s *PlannerService) Get(ctx context.Context, id string) (*models.PlanRecord, error) {
	if cached, found := s.cache.Get(planCachePrefix + id); found {
		record := cached.(models.PlanRecord).Clone()
		return &record, nil
	}
	if s.store == nil {
		return nil, fmt.Errorf("plan %s: %w", id, models.ErrNotFound)
	}
	record, err := s.store.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(planCachePrefix+id, record.Clone(), s.cacheTTL)
	return record, nil
}

func (s *PlannerService) List(ctx context.Context, ownerID string) ([]models.PlanRecord, error) {
	if s.store == nil {
		return []models.PlanRecord{}, nil
	}
	return s.store.ListPlans(ctx, ownerID)
}

// Toggle flips one block and persists the plan. Nothing changes if ref is unknown.
func (s *PlannerService) Toggle(ctx context.Context, id string, ref models.BlockRef) (*models.PlanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := record.Plan.Toggle(ref); err != nil {
		return nil, err
	}
	if err := s.save(ctx, record); err != nil {
		s.cache.Delete(planCachePrefix + id)
		return nil, err
	}
	s.cache.Set(planCachePrefix+id, record.Clone(), s.cacheTTL)
	return record, nil
}

// Reminders evaluates the stored plan at now. notified lists blocks the client already showed.
func (s *PlannerService) Reminders(ctx context.Context, id string, now time.Time, notified map[models.BlockRef]bool, window time.Duration) ([]models.Reminder, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	due := DueReminders(&record.Plan, now, notified, window)
	reminders := make([]models.Reminder, 0, len(due))
	for _, ref := range due {
		r, err := ReminderFor(&record.Plan, ref)
		if err != nil {
			continue
		}
		reminders = append(reminders, r)
	}
	return reminders, nil
}

// Import stores a plan read back from an exported workbook.
func (s *PlannerService) Import(ctx context.Context, ownerID string, file io.Reader) (*models.PlanRecord, error) {
	plan, err := s.parser.ParseXLSX(file)
	if err != nil {
		return nil, err
	}
	record := &models.PlanRecord{
		ID:        s.newID(),
		OwnerID:   ownerID,
		Plan:      *plan,
		CreatedAt: s.now().UTC(),
	}
	s.cache.Set(planCachePrefix+record.ID, record.Clone(), s.cacheTTL)
	if err := s.save(ctx, record); err != nil {
		return record, err
	}
	s.logger.Info("plan imported", zap.String("plan_id", record.ID), zap.String("variant", string(plan.Variant)))
	return record, nil
}

// InvalidateCache drops one cached plan, or all of them when id is empty.
func (s *PlannerService) InvalidateCache(id string) {
	if id == "" {
		s.cache.Flush()
		return
	}
	s.cache.Delete(planCachePrefix + id)
}
