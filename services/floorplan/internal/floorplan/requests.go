package floorplan

import (
	"github.com/appetiteclub/floorplan/services/floorplan/internal/plan"
	"github.com/google/uuid"
)

const (
	ToolNone   = "none"
	ToolTable  = "table"
	ToolObject = "object"
	ToolJoin   = "join"
)

const (
	PointerDown   = "down"
	PointerMove   = "move"
	PointerUp     = "up"
	PointerCancel = "cancel"
	PointerClick  = "click"
)

type ToolRequest struct {
	Tool string `json:"tool"`
	Zone string `json:"zone,omitempty"`
	Size string `json:"size,omitempty"`
	Type string `json:"type,omitempty"`
}

// ContainerRect is the on-screen bounds of the canvas, in pixels.
type ContainerRect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (c ContainerRect) Rect() plan.Rect {
	return plan.Rect{Left: c.Left, Top: c.Top, Width: c.Width, Height: c.Height}
}

// PointerRequest relays one pointer or click event from the canvas. A click
// without a target lands on empty canvas.
type PointerRequest struct {
	Type      string        `json:"type"`
	Target    *plan.NodeRef `json:"target,omitempty"`
	ClientX   float64       `json:"client_x"`
	ClientY   float64       `json:"client_y"`
	Container ContainerRect `json:"container"`
}

func (p PointerRequest) Pointer() plan.Pointer {
	return plan.Pointer{ClientX: p.ClientX, ClientY: p.ClientY}
}

// NodeUpdateRequest carries the attributes of either node kind; only the
// ones matching the node being updated are applied.
type NodeUpdateRequest struct {
	Label     *string  `json:"label,omitempty"`
	X         *float64 `json:"x,omitempty"`
	Y         *float64 `json:"y,omitempty"`
	Zone      *string  `json:"zone,omitempty"`
	Seats     *int     `json:"seats,omitempty"`
	Status    *string  `json:"status,omitempty"`
	Size      *string  `json:"size,omitempty"`
	Shape     *string  `json:"shape,omitempty"`
	SizeRatio *float64 `json:"size_ratio,omitempty"`
	Desc      *string  `json:"desc,omitempty"`
	Type      *string  `json:"type,omitempty"`
	Width     *float64 `json:"width,omitempty"`
	Height    *float64 `json:"height,omitempty"`
	Color     *string  `json:"color,omitempty"`
}

func (req NodeUpdateRequest) TablePatch() plan.TablePatch {
	p := plan.TablePatch{
		Label:     req.Label,
		X:         req.X,
		Y:         req.Y,
		Seats:     req.Seats,
		SizeRatio: req.SizeRatio,
		Desc:      req.Desc,
	}
	if req.Zone != nil {
		z, _ := plan.ParseZone(*req.Zone)
		p.Zone = &z
	}
	if req.Status != nil {
		s, _ := plan.ParseStatus(*req.Status)
		p.Status = &s
	}
	if req.Size != nil {
		s, _ := plan.ParseSize(*req.Size)
		p.Size = &s
	}
	if req.Shape != nil {
		s, _ := plan.ParseShape(*req.Shape)
		p.Shape = &s
	}
	return p
}

func (req NodeUpdateRequest) ObjectPatch() plan.ObjectPatch {
	p := plan.ObjectPatch{
		Label:  req.Label,
		X:      req.X,
		Y:      req.Y,
		Width:  req.Width,
		Height: req.Height,
		Color:  req.Color,
	}
	if req.Type != nil {
		t, _ := plan.ParseObjectType(*req.Type)
		p.Type = &t
	}
	return p
}

type JoinRequest struct {
	IDs []uuid.UUID `json:"ids,omitempty"`
}

type BookingRequest struct {
	TableID  uuid.UUID `json:"table_id"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	Time     string    `json:"time"`
	Note     string    `json:"note,omitempty"`
	Province string    `json:"province,omitempty"`
}
