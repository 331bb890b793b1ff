package floorplan

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/appetiteclub/floorplan/pkg"
	"github.com/appetiteclub/floorplan/services/floorplan/internal/booking"
	"github.com/appetiteclub/floorplan/services/floorplan/internal/plan"
	"github.com/google/uuid"
)

func savedEvent(t *testing.T, planID uuid.UUID, source string) []byte {
	t.Helper()
	data, err := json.Marshal(pkg.PlanSavedEvent{
		EventType: pkg.EventPlanSaved,
		PlanID:    planID.String(),
		Source:    source,
	})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return data
}

func TestRegistryWith(t *testing.T) {
	tests := []struct {
		name        string
		id          uuid.UUID
		expectedErr error
	}{
		{
			name: "knownPlan",
			id:   testPlanID,
		},
		{
			name:        "unknownPlan",
			id:          uuid.MustParse("550e8400-e29b-41d4-a716-446655440099"),
			expectedErr: ErrPlanNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMockPlanRepo(fixturePlan())
			reg := NewRegistry(repo, nil, "instance-a", nil)

			called := false
			err := reg.With(context.Background(), tt.id, func(e *Entry) error {
				called = true
				return nil
			})

			if !errors.Is(err, tt.expectedErr) {
				t.Fatalf("With() error = %v, want %v", err, tt.expectedErr)
			}
			if called != (tt.expectedErr == nil) {
				t.Errorf("fn called = %v", called)
			}
			if reg.Loaded(tt.id) != (tt.expectedErr == nil) {
				t.Errorf("Loaded() = %v", reg.Loaded(tt.id))
			}
		})
	}
}

func TestRegistryWithLoadsOnce(t *testing.T) {
	repo := NewMockPlanRepo(fixturePlan())
	reg := NewRegistry(repo, nil, "instance-a", nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := reg.With(ctx, testPlanID, func(e *Entry) error { return nil }); err != nil {
			t.Fatalf("With() error = %v", err)
		}
	}
	if repo.GetCalls() != 1 {
		t.Errorf("repo loaded %d times, want 1", repo.GetCalls())
	}

	reg.Forget(testPlanID)
	if reg.Loaded(testPlanID) {
		t.Error("Forget() should drop the entry")
	}
}

func TestRegistryWithRepoError(t *testing.T) {
	repo := NewMockPlanRepo()
	repo.GetFunc = func(ctx context.Context, id uuid.UUID) (*plan.Plan, error) {
		return nil, errors.New("connection refused")
	}
	reg := NewRegistry(repo, nil, "instance-a", nil)

	err := reg.With(context.Background(), testPlanID, func(e *Entry) error { return nil })
	if err == nil || errors.Is(err, ErrPlanNotFound) {
		t.Errorf("With() error = %v, want a load error", err)
	}
}

func TestRegistryEntrySeparatesNotifications(t *testing.T) {
	reg := NewRegistry(NewMockPlanRepo(fixturePlan()), nil, "instance-a", nil)

	err := reg.With(context.Background(), testPlanID, func(e *Entry) error {
		e.Session.EnterEdit()
		e.Session.Cancel()
		if _, err := e.Desk.Submit(context.Background(), nil, booking.Form{}); !errors.Is(err, booking.ErrProfileMissing) {
			t.Errorf("Submit() error = %v, want %v", err, booking.ErrProfileMissing)
		}

		notes := e.Notes.Drain()
		if len(notes) != 1 || notes[0].Message != plan.MsgDiscarded {
			t.Errorf("editor notes = %+v, want one discard notice", notes)
		}
		deskNotes := e.DeskNotes.Drain()
		if len(deskNotes) != 1 || deskNotes[0].Message != booking.MsgNoProfile {
			t.Errorf("desk notes = %+v, want one missing profile notice", deskNotes)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("With() error = %v", err)
	}
}

func TestRegistryHandlePlanSaved(t *testing.T) {
	tests := []struct {
		name          string
		source        string
		editing       bool
		expectedLabel string
	}{
		{
			name:          "otherInstance",
			source:        "instance-b",
			expectedLabel: "Bar",
		},
		{
			name:          "ownEvent",
			source:        "instance-a",
			expectedLabel: "A1",
		},
		{
			name:          "whileEditing",
			source:        "instance-b",
			editing:       true,
			expectedLabel: "A1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMockPlanRepo(fixturePlan())
			reg := NewRegistry(repo, nil, "instance-a", nil)
			ctx := context.Background()

			_ = reg.With(ctx, testPlanID, func(e *Entry) error {
				if tt.editing {
					e.Session.EnterEdit()
				}
				return nil
			})

			changed := fixturePlan()
			changed.Tables[0].Label = "Bar"
			if err := repo.Save(ctx, changed); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			if err := reg.HandlePlanSaved(ctx, savedEvent(t, testPlanID, tt.source)); err != nil {
				t.Fatalf("HandlePlanSaved() error = %v", err)
			}

			_ = reg.With(ctx, testPlanID, func(e *Entry) error {
				a1, ok := e.Session.Saved().Table(testTableA1)
				if !ok || a1.Label != tt.expectedLabel {
					t.Errorf("saved label = %v, want %s", a1, tt.expectedLabel)
				}
				if tt.editing && !e.Session.Editing() {
					t.Error("session should still be editing")
				}
				return nil
			})
		})
	}
}

func TestRegistryHandlePlanSavedRefreshesDesk(t *testing.T) {
	tests := []struct {
		name    string
		editing bool
	}{
		{name: "viewing"},
		{name: "whileEditing", editing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMockPlanRepo(fixturePlan())
			reg := NewRegistry(repo, nil, "instance-a", nil)
			ctx := context.Background()

			_ = reg.With(ctx, testPlanID, func(e *Entry) error {
				if tt.editing {
					e.Session.EnterEdit()
				}
				return nil
			})

			changed := fixturePlan()
			changed.Tables = changed.Tables[:1]
			_ = repo.Save(ctx, changed)

			if err := reg.HandlePlanSaved(ctx, savedEvent(t, testPlanID, "instance-b")); err != nil {
				t.Fatalf("HandlePlanSaved() error = %v", err)
			}

			_ = reg.With(ctx, testPlanID, func(e *Entry) error {
				if got := len(e.Desk.View().Tables); got != 1 {
					t.Errorf("desk tables = %d, want 1", got)
				}
				if err := e.Desk.Select(testTableB1); !errors.Is(err, booking.ErrTableNotFound) {
					t.Errorf("Select(removed table) error = %v, want %v", err, booking.ErrTableNotFound)
				}
				if tt.editing {
					if !e.Session.Editing() {
						t.Error("session should still be editing")
					}
					if got := len(e.Session.Draft().Tables); got != 3 {
						t.Errorf("draft tables = %d, want 3", got)
					}
				}
				return nil
			})
		})
	}
}

func TestRegistryHandlePlanSavedEdgeCases(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		load        bool
		deleted     bool
		expectErr   bool
		expectGets  int
		expectEntry bool
	}{
		{
			name:      "invalidJSON",
			data:      []byte("{"),
			expectErr: true,
		},
		{
			name:      "invalidPlanID",
			data:      []byte(`{"plan_id":"nope","source":"instance-b"}`),
			expectErr: true,
		},
		{
			name:       "planNotLoaded",
			expectGets: 0,
		},
		{
			name:        "planDeleted",
			load:        true,
			deleted:     true,
			expectGets:  2,
			expectEntry: false,
		},
		{
			name:        "deletedByUtils",
			data:        []byte(`{"event_type":"floorplan.plan.deleted","plan_id":"550e8400-e29b-41d4-a716-446655440000","source":"floorplan-utils"}`),
			load:        true,
			deleted:     true,
			expectGets:  2,
			expectEntry: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMockPlanRepo(fixturePlan())
			reg := NewRegistry(repo, nil, "instance-a", nil)
			ctx := context.Background()

			if tt.load {
				_ = reg.With(ctx, testPlanID, func(e *Entry) error { return nil })
			}
			if tt.deleted {
				_ = repo.Delete(ctx, testPlanID)
			}

			data := tt.data
			if data == nil {
				data = savedEvent(t, testPlanID, "instance-b")
			}

			err := reg.HandlePlanSaved(ctx, data)
			if (err != nil) != tt.expectErr {
				t.Fatalf("HandlePlanSaved() error = %v, expectErr %v", err, tt.expectErr)
			}
			if tt.expectErr {
				return
			}
			if repo.GetCalls() != tt.expectGets {
				t.Errorf("repo gets = %d, want %d", repo.GetCalls(), tt.expectGets)
			}
			if reg.Loaded(testPlanID) != tt.expectEntry {
				t.Errorf("Loaded() = %v, want %v", reg.Loaded(testPlanID), tt.expectEntry)
			}
		})
	}
}
