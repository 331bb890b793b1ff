package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/appetiteclub/floorplan/services/floorplan/internal/plan"
	"github.com/google/uuid"
)

const (
	MsgIncomplete = "name, phone and time are required"
	MsgConfirmed  = "booking confirmed"
	MsgFailed     = "booking failed, please try again"
	MsgNoProfile  = "profile not found"
)

var (
	ErrProfileMissing   = errors.New("profile not found")
	ErrTableUnavailable = errors.New("table is not available")
	ErrTableNotFound    = errors.New("table not found")
	ErrNoSelection      = errors.New("no table selected")
	ErrIncompleteForm   = errors.New(MsgIncomplete)
)

// Profile identifies the customer making a booking.
type Profile struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// Form is what the customer fills in for the selected table.
type Form struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Time     string `json:"time"`
	Note     string `json:"note,omitempty"`
	Province string `json:"province,omitempty"`
}

// Request is a complete booking handed to a Submitter.
type Request struct {
	Profile    Profile
	PlanID     uuid.UUID
	TableID    uuid.UUID
	TableLabel string
	Name       string
	Phone      string
	Time       string
	Note       string
	Province   string
}

// Submitter delivers booking requests to the external booking API.
type Submitter interface {
	SubmitBooking(ctx context.Context, req Request) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, req Request) error

func (f SubmitterFunc) SubmitBooking(ctx context.Context, req Request) error {
	return f(ctx, req)
}

// Desk is the customer-facing view of a saved plan. It works on its own copy
// of the plan, so a booking never touches an edit session.
type Desk struct {
	plan      *plan.Plan
	filter    plan.Filter
	selected  uuid.UUID
	submitter Submitter
	notifier  plan.Notifier
}

func NewDesk(saved *plan.Plan, submitter Submitter, notifier plan.Notifier) *Desk {
	d := &Desk{submitter: submitter}
	d.SetNotifier(notifier)
	d.Reload(saved)
	return d
}

func (d *Desk) SetNotifier(n plan.Notifier) {
	if n == nil {
		n = plan.NotifierFunc(func(string, time.Duration) {})
	}
	d.notifier = n
}

// Reload replaces the desk's copy of the plan, keeping local reservations for
// tables still present.
func (d *Desk) Reload(saved *plan.Plan) {
	next := saved.Clone()
	if next == nil {
		next = plan.NewPlan("")
	}
	if d.plan != nil && d.plan.ID == next.ID {
		for _, t := range next.Tables {
			if prev, ok := d.plan.Table(t.ID); ok && prev.Status == plan.StatusReserved {
				t.Status = plan.StatusReserved
			}
		}
	}
	d.plan = next
	if _, ok := d.plan.Table(d.selected); !ok {
		d.selected = uuid.Nil
	}
}

func (d *Desk) SetFilter(f plan.Filter) {
	d.filter = f
}

func (d *Desk) Filter() plan.Filter {
	return d.filter
}

// View returns the filtered, read-only projection of the plan.
func (d *Desk) View() plan.View {
	return d.filter.Apply(d.plan)
}

// Select picks a table to book. Only available tables can be picked.
func (d *Desk) Select(id uuid.UUID) error {
	t, ok := d.plan.Table(id)
	if !ok {
		return ErrTableNotFound
	}
	if t.Status != plan.StatusAvailable {
		return ErrTableUnavailable
	}
	d.selected = id
	return nil
}

// Selected returns a copy of the selected table.
func (d *Desk) Selected() (*plan.TableNode, bool) {
	if d.selected == uuid.Nil {
		return nil, false
	}
	t, ok := d.plan.Table(d.selected)
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

func (d *Desk) ClearSelection() {
	d.selected = uuid.Nil
}

// Submit books the selected table for profile. A nil profile blocks the
// booking. On success the table is marked reserved in the desk's copy and the
// selection is cleared; on failure nothing changes.
func (d *Desk) Submit(ctx context.Context, profile *Profile, form Form) (*Request, error) {
	if profile == nil || strings.TrimSpace(profile.UserID) == "" {
		d.notifier.Notify(MsgNoProfile, plan.ToastDuration)
		return nil, ErrProfileMissing
	}

	t, ok := d.Selected()
	if !ok {
		return nil, ErrNoSelection
	}
	if t.Status != plan.StatusAvailable {
		return nil, ErrTableUnavailable
	}

	name := strings.TrimSpace(form.Name)
	if name == "" {
		name = strings.TrimSpace(profile.DisplayName)
	}
	phone := strings.TrimSpace(form.Phone)
	at := strings.TrimSpace(form.Time)
	if name == "" || phone == "" || at == "" {
		d.notifier.Notify(MsgIncomplete, plan.ToastDuration)
		return nil, ErrIncompleteForm
	}

	req := Request{
		Profile:    *profile,
		PlanID:     d.plan.ID,
		TableID:    t.ID,
		TableLabel: t.Label,
		Name:       name,
		Phone:      phone,
		Time:       at,
		Note:       strings.TrimSpace(form.Note),
		Province:   strings.TrimSpace(form.Province),
	}

	if d.submitter != nil {
		if err := d.submitter.SubmitBooking(ctx, req); err != nil {
			d.notifier.Notify(MsgFailed, plan.ToastDuration)
			return nil, err
		}
	}

	if stored, ok := d.plan.Table(t.ID); ok {
		stored.Status = plan.StatusReserved
	}
	d.selected = uuid.Nil
	d.notifier.Notify(MsgConfirmed, plan.ToastDuration)
	return &req, nil
}
