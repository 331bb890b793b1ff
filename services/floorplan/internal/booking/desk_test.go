package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/appetiteclub/floorplan/services/floorplan/internal/plan"
	"github.com/google/uuid"
)

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Notify(message string, _ time.Duration) {
	r.messages = append(r.messages, message)
}

func (r *recordingNotifier) last() string {
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[len(r.messages)-1]
}

func deskPlan() *plan.Plan {
	p := plan.NewPlan("main floor")
	p.Tables = []*plan.TableNode{
		plan.NewTableNode(plan.ZoneA, plan.SizeMedium, 0.2, 0.3, 1),
		plan.NewTableNode(plan.ZoneA, plan.SizeSmall, 0.35, 0.3, 2),
		plan.NewTableNode(plan.ZoneB, plan.SizeLarge, 0.65, 0.65, 1),
	}
	p.Tables[1].Status = plan.StatusReserved
	p.Objects = []*plan.ObjectNode{plan.NewObjectNode(plan.ObjectStage, 0.5, 0.12)}
	return p
}

var customer = &Profile{UserID: "U4af4980629", DisplayName: "Somchai"}

func TestDeskSelect(t *testing.T) {
	p := deskPlan()
	d := NewDesk(p, nil, nil)

	tests := []struct {
		name    string
		id      uuid.UUID
		wantErr error
	}{
		{name: "available", id: p.Tables[0].ID, wantErr: nil},
		{name: "reserved", id: p.Tables[1].ID, wantErr: ErrTableUnavailable},
		{name: "object", id: p.Objects[0].ID, wantErr: ErrTableNotFound},
		{name: "missing", id: uuid.New(), wantErr: ErrTableNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := d.Select(tt.id); !errors.Is(err, tt.wantErr) {
				t.Errorf("Select() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if sel, ok := d.Selected(); !ok || sel.ID != p.Tables[0].ID {
		t.Error("failed selections should keep the last valid one")
	}
}

func TestDeskSubmit(t *testing.T) {
	tests := []struct {
		name       string
		profile    *Profile
		form       Form
		submitErr  error
		wantErr    error
		wantMsg    string
		wantCalled bool
		wantStatus plan.Status
	}{
		{
			name:       "confirmed",
			profile:    customer,
			form:       Form{Name: "Anan", Phone: "0812345678", Time: "19:00"},
			wantMsg:    MsgConfirmed,
			wantCalled: true,
			wantStatus: plan.StatusReserved,
		},
		{
			name:       "nameFromProfile",
			profile:    customer,
			form:       Form{Phone: "0812345678", Time: "19:00"},
			wantMsg:    MsgConfirmed,
			wantCalled: true,
			wantStatus: plan.StatusReserved,
		},
		{
			name:       "missingPhone",
			profile:    customer,
			form:       Form{Name: "Anan", Time: "19:00"},
			wantErr:    ErrIncompleteForm,
			wantMsg:    MsgIncomplete,
			wantStatus: plan.StatusAvailable,
		},
		{
			name:       "missingTime",
			profile:    customer,
			form:       Form{Name: "Anan", Phone: "0812345678", Time: "  "},
			wantErr:    ErrIncompleteForm,
			wantMsg:    MsgIncomplete,
			wantStatus: plan.StatusAvailable,
		},
		{
			name:       "noProfile",
			profile:    nil,
			form:       Form{Name: "Anan", Phone: "0812345678", Time: "19:00"},
			wantErr:    ErrProfileMissing,
			wantMsg:    MsgNoProfile,
			wantStatus: plan.StatusAvailable,
		},
		{
			name:       "submissionFails",
			profile:    customer,
			form:       Form{Name: "Anan", Phone: "0812345678", Time: "19:00"},
			submitErr:  errors.New("connection refused"),
			wantMsg:    MsgFailed,
			wantCalled: true,
			wantStatus: plan.StatusAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := deskPlan()
			target := p.Tables[0]
			notes := &recordingNotifier{}

			var got *Request
			d := NewDesk(p, SubmitterFunc(func(_ context.Context, req Request) error {
				got = &req
				return tt.submitErr
			}), notes)

			if err := d.Select(target.ID); err != nil {
				t.Fatalf("Select() error = %v", err)
			}

			_, err := d.Submit(context.Background(), tt.profile, tt.form)
			wantErr := tt.wantErr
			if tt.submitErr != nil {
				wantErr = tt.submitErr
			}
			if !errors.Is(err, wantErr) {
				t.Fatalf("Submit() error = %v, want %v", err, wantErr)
			}
			if (got != nil) != tt.wantCalled {
				t.Fatalf("submitter called = %v, want %v", got != nil, tt.wantCalled)
			}
			if notes.last() != tt.wantMsg {
				t.Errorf("notification = %q, want %q", notes.last(), tt.wantMsg)
			}

			view := d.View()
			for _, tbl := range view.Tables {
				if tbl.ID == target.ID && tbl.Status != tt.wantStatus {
					t.Errorf("status = %q, want %q", tbl.Status, tt.wantStatus)
				}
			}

			if p.Tables[0].Status != plan.StatusAvailable {
				t.Error("booking should not mutate the plan the desk was built from")
			}
		})
	}
}

func TestDeskSubmitRequestPayload(t *testing.T) {
	p := deskPlan()
	var got Request
	d := NewDesk(p, SubmitterFunc(func(_ context.Context, req Request) error {
		got = req
		return nil
	}), nil)

	d.Select(p.Tables[2].ID)
	if _, err := d.Submit(context.Background(), customer, Form{Phone: " 0812345678 ", Time: "20:30", Note: "birthday"}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if got.Name != customer.DisplayName {
		t.Errorf("Name = %q, want %q", got.Name, customer.DisplayName)
	}
	if got.Phone != "0812345678" {
		t.Errorf("Phone = %q, want trimmed", got.Phone)
	}
	if got.TableID != p.Tables[2].ID || got.TableLabel != "B1" {
		t.Errorf("table = %v %q, want %v B1", got.TableID, got.TableLabel, p.Tables[2].ID)
	}
	if got.PlanID != p.ID || got.Profile.UserID != customer.UserID {
		t.Error("request should carry the plan and profile")
	}
	if _, ok := d.Selected(); ok {
		t.Error("a confirmed booking should clear the selection")
	}
}

func TestDeskSubmitWithoutSelection(t *testing.T) {
	d := NewDesk(deskPlan(), nil, nil)
	if _, err := d.Submit(context.Background(), customer, Form{Name: "a", Phone: "b", Time: "c"}); !errors.Is(err, ErrNoSelection) {
		t.Errorf("Submit() error = %v, want %v", err, ErrNoSelection)
	}
}

func TestDeskBookedTableCannotBeReselected(t *testing.T) {
	p := deskPlan()
	d := NewDesk(p, nil, nil)

	d.Select(p.Tables[0].ID)
	if _, err := d.Submit(context.Background(), customer, Form{Phone: "1", Time: "18:00"}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if err := d.Select(p.Tables[0].ID); !errors.Is(err, ErrTableUnavailable) {
		t.Errorf("Select() error = %v, want %v", err, ErrTableUnavailable)
	}
}

func TestDeskReload(t *testing.T) {
	p := deskPlan()
	d := NewDesk(p, nil, nil)
	d.Select(p.Tables[0].ID)
	d.Submit(context.Background(), customer, Form{Phone: "1", Time: "18:00"})
	d.Select(p.Tables[2].ID)

	next := p.Clone()
	next.Tables = next.Tables[:2]
	d.Reload(next)

	if _, ok := d.Selected(); ok {
		t.Error("selection of a removed table should be dropped")
	}
	if len(d.View().Tables) != 2 {
		t.Fatalf("tables = %d, want 2", len(d.View().Tables))
	}
	if d.View().Tables[0].Status != plan.StatusReserved {
		t.Error("local reservations should survive a reload of the same plan")
	}

	d.Reload(deskPlan())
	if d.View().Tables[0].Status != plan.StatusAvailable {
		t.Error("reloading a different plan should drop local reservations")
	}
}

func TestDeskFilter(t *testing.T) {
	d := NewDesk(deskPlan(), nil, nil)
	d.SetFilter(plan.ParseFilter("A", true))

	v := d.View()
	if len(v.Tables) != 1 || v.Tables[0].Label != "A1" {
		t.Errorf("filtered tables = %v, want [A1]", v.Tables)
	}
	if len(v.Objects) != 1 {
		t.Error("objects should not be filtered")
	}
}
