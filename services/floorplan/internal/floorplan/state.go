package floorplan

import (
	"time"

	"github.com/appetiteclub/floorplan/services/floorplan/internal/plan"
	"github.com/google/uuid"
)

// PlanState is what every editor route answers with: the draft as the
// editor should render it plus the session flags driving the toolbar.
type PlanState struct {
	ID            uuid.UUID           `json:"id"`
	Name          string              `json:"name"`
	Mode          string              `json:"mode"`
	Editing       bool                `json:"editing"`
	Dirty         bool                `json:"dirty"`
	CanSave       bool                `json:"can_save"`
	Tool          *ToolState          `json:"tool,omitempty"`
	JoinSelection []uuid.UUID         `json:"join_selection,omitempty"`
	Selected      *plan.NodeRef       `json:"selected,omitempty"`
	Dragging      *plan.NodeRef       `json:"dragging,omitempty"`
	Filter        FilterState         `json:"filter"`
	View          ViewState           `json:"view"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Notifications []plan.Notification `json:"notifications"`
}

type ToolState struct {
	Tool string `json:"tool"`
	Zone string `json:"zone,omitempty"`
	Size string `json:"size,omitempty"`
	Type string `json:"type,omitempty"`
}

type FilterState struct {
	Zone          string `json:"zone"`
	AvailableOnly bool   `json:"available_only"`
}

// TableView is a table plus the colour its status renders with.
type TableView struct {
	*plan.TableNode
	Color string `json:"color"`
}

type ViewState struct {
	Tables  []TableView        `json:"tables"`
	Objects []*plan.ObjectNode `json:"objects"`
}

type PlanSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Tables    int       `json:"tables"`
	Objects   int       `json:"objects"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `json:"updated_by,omitempty"`
}

type PointerResult struct {
	Handled bool          `json:"handled"`
	Placed  *plan.NodeRef `json:"placed,omitempty"`
	Plan    PlanState     `json:"plan"`
}

type DeskState struct {
	PlanID        uuid.UUID           `json:"plan_id"`
	Filter        FilterState         `json:"filter"`
	View          ViewState           `json:"view"`
	Notifications []plan.Notification `json:"notifications"`
}

type BookingResult struct {
	PlanID        uuid.UUID           `json:"plan_id"`
	TableID       uuid.UUID           `json:"table_id"`
	TableLabel    string              `json:"table_label"`
	Name          string              `json:"name"`
	Time          string              `json:"time"`
	Status        plan.Status         `json:"status"`
	Notifications []plan.Notification `json:"notifications"`
}

// BookingFailure is returned when a submission is rejected.
type BookingFailure struct {
	PlanID        uuid.UUID           `json:"plan_id"`
	TableID       uuid.UUID           `json:"table_id"`
	Error         string              `json:"error"`
	Notifications []plan.Notification `json:"notifications"`
}

func summaryOf(p *plan.Plan) PlanSummary {
	return PlanSummary{
		ID:        p.ID,
		Name:      p.Name,
		Tables:    len(p.Tables),
		Objects:   len(p.Objects),
		UpdatedAt: p.UpdatedAt,
		UpdatedBy: p.UpdatedBy,
	}
}

func toolStateOf(p plan.Placement) *ToolState {
	switch pl := p.(type) {
	case plan.TablePlacement:
		return &ToolState{Tool: ToolTable, Zone: string(pl.Zone), Size: string(pl.Size)}
	case plan.ObjectPlacement:
		return &ToolState{Tool: ToolObject, Type: string(pl.Type)}
	}
	return nil
}

func filterStateOf(f plan.Filter) FilterState {
	zone := string(f.Zone)
	if zone == "" {
		zone = plan.AllZones
	}
	return FilterState{Zone: zone, AvailableOnly: f.AvailableOnly}
}

func viewOf(v plan.View) ViewState {
	tables := make([]TableView, 0, len(v.Tables))
	for _, t := range v.Tables {
		tables = append(tables, TableView{TableNode: t, Color: t.Status.Color()})
	}
	objects := v.Objects
	if objects == nil {
		objects = []*plan.ObjectNode{}
	}
	return ViewState{Tables: tables, Objects: objects}
}
