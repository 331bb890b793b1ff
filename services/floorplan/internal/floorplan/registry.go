package floorplan

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/floorplan/pkg"
	"github.com/appetiteclub/floorplan/services/floorplan/internal/booking"
	"github.com/appetiteclub/floorplan/services/floorplan/internal/plan"
	"github.com/google/uuid"
)

// Entry is the live state of one plan: its edit session, the pointer
// controller driving it and the customer booking desk. Editor notifications
// collect in Notes and desk notifications in DeskNotes until the next
// response to the same audience drains them.
type Entry struct {
	mu sync.Mutex

	Session    *plan.Session
	Controller *plan.Controller
	Desk       *booking.Desk
	Notes      *plan.NotificationLog
	DeskNotes  *plan.NotificationLog
}

func newEntry(p *plan.Plan, submitter booking.Submitter) *Entry {
	notes := &plan.NotificationLog{}
	deskNotes := &plan.NotificationLog{}
	session := plan.NewSession(p, notes)
	return &Entry{
		Session:    session,
		Controller: plan.NewController(session),
		Desk:       booking.NewDesk(p, submitter, deskNotes),
		Notes:      notes,
		DeskNotes:  deskNotes,
	}
}

// Registry keeps one Entry per plan, loading saved snapshots on demand.
// Work on an entry is serialised by its own lock.
type Registry struct {
	repo      PlanRepo
	submitter booking.Submitter
	source    string
	logger    apt.Logger

	mu      sync.RWMutex
	entries map[uuid.UUID]*Entry
}

// NewRegistry builds a registry. source identifies this instance in the
// events it publishes so its own saves are not applied twice.
func NewRegistry(repo PlanRepo, submitter booking.Submitter, source string, logger apt.Logger) *Registry {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Registry{
		repo:      repo,
		submitter: submitter,
		source:    source,
		logger:    logger,
		entries:   make(map[uuid.UUID]*Entry),
	}
}

func (r *Registry) Source() string {
	return r.source
}

// With runs fn while holding the plan's lock.
func (r *Registry) With(ctx context.Context, id uuid.UUID, fn func(e *Entry) error) error {
	e, err := r.entry(ctx, id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e)
}

// Forget drops the live state of a plan.
func (r *Registry) Forget(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Loaded reports whether the plan has live state.
func (r *Registry) Loaded(id uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[id]
	return ok
}

func (r *Registry) entry(ctx context.Context, id uuid.UUID) (*Entry, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if ok {
		return e, nil
	}

	p, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cannot load plan: %w", err)
	}
	if p == nil {
		return nil, ErrPlanNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.entries[id]; ok {
		return existing, nil
	}
	e = newEntry(p, r.submitter)
	r.entries[id] = e
	return e, nil
}

// HandlePlanSaved applies plans saved by other instances. The booking desk
// always takes the new snapshot. Editing sessions keep their base snapshot;
// their next save overwrites the stored one.
func (r *Registry) HandlePlanSaved(ctx context.Context, data []byte) error {
	var evt pkg.PlanSavedEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return fmt.Errorf("cannot decode plan saved event: %w", err)
	}
	if evt.Source != "" && evt.Source == r.source {
		return nil
	}

	id, err := uuid.Parse(evt.PlanID)
	if err != nil {
		return fmt.Errorf("invalid plan id %q: %w", evt.PlanID, err)
	}

	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	p, err := r.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("cannot reload plan: %w", err)
	}
	if p == nil {
		r.Forget(id)
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.Desk.Reload(p)
	if !e.Session.Replace(p) {
		r.logger.Info("plan changed elsewhere while being edited", "plan_id", id.String(), "source", evt.Source)
		return nil
	}
	r.logger.Debug("plan refreshed from event", "plan_id", id.String(), "source", evt.Source)
	return nil
}
