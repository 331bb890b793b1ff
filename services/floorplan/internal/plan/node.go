package plan

import (
	"strings"

	"github.com/google/uuid"
)

type Zone string

const (
	ZoneA Zone = "A"
	ZoneB Zone = "B"
)

// Zones lists the zones a table can belong to, in display order.
var Zones = []Zone{ZoneA, ZoneB}

func (z Zone) Valid() bool {
	for _, known := range Zones {
		if z == known {
			return true
		}
	}
	return false
}

// ParseZone accepts the zone name in any case.
func ParseZone(s string) (Zone, bool) {
	z := Zone(strings.ToUpper(strings.TrimSpace(s)))
	return z, z.Valid()
}

type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusOccupied  Status = "occupied"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusOccupied:
		return true
	}
	return false
}

// Color is the rendering colour associated with the status.
func (s Status) Color() string {
	switch s {
	case StatusReserved:
		return "#f59e0b"
	case StatusOccupied:
		return "#f43f5e"
	default:
		return "#10b981"
	}
}

func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Valid()
}

type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

func (s Size) Valid() bool {
	_, ok := sizeDefaults[s]
	return ok
}

func ParseSize(s string) (Size, bool) {
	sz := Size(strings.ToLower(strings.TrimSpace(s)))
	return sz, sz.Valid()
}

type Shape string

const (
	ShapeSquare Shape = "square"
	ShapeCircle Shape = "circle"
)

func (s Shape) Valid() bool {
	return s == ShapeSquare || s == ShapeCircle
}

func ParseShape(s string) (Shape, bool) {
	sh := Shape(strings.ToLower(strings.TrimSpace(s)))
	return sh, sh.Valid()
}

type ObjectType string

const (
	ObjectStage  ObjectType = "stage"
	ObjectScreen ObjectType = "screen"
)

func (t ObjectType) Valid() bool {
	_, ok := objectDefaults[t]
	return ok
}

func ParseObjectType(s string) (ObjectType, bool) {
	ot := ObjectType(strings.ToLower(strings.TrimSpace(s)))
	return ot, ot.Valid()
}

// NodeKind tags the variant held by a Node.
type NodeKind string

const (
	KindTable  NodeKind = "table"
	KindObject NodeKind = "object"
)

func (k NodeKind) Valid() bool {
	return k == KindTable || k == KindObject
}

// Node is either a *TableNode or an *ObjectNode. Callers switch on the
// concrete type; the interface is closed to this package.
type Node interface {
	NodeID() uuid.UUID
	Kind() NodeKind
	Position() Point
	isNode()
}

// NodeRef identifies a node by kind and id, as carried by pointer events.
type NodeRef struct {
	ID   uuid.UUID `json:"id"`
	Kind NodeKind  `json:"kind"`
}

func RefOf(n Node) NodeRef {
	return NodeRef{ID: n.NodeID(), Kind: n.Kind()}
}

// TableNode is a physical table on the floor plan.
type TableNode struct {
	ID        uuid.UUID  `json:"id" bson:"id"`
	Label     string     `json:"label" bson:"label"`
	Zone      Zone       `json:"zone" bson:"zone"`
	Seats     int        `json:"seats" bson:"seats"`
	Status    Status     `json:"status" bson:"status"`
	X         float64    `json:"x" bson:"x"`
	Y         float64    `json:"y" bson:"y"`
	Size      Size       `json:"size" bson:"size"`
	Shape     Shape      `json:"shape" bson:"shape"`
	SizeRatio float64    `json:"size_ratio" bson:"size_ratio"`
	GroupID   *uuid.UUID `json:"group_id,omitempty" bson:"group_id,omitempty"`
	Desc      string     `json:"desc,omitempty" bson:"desc,omitempty"`
}

func (t *TableNode) NodeID() uuid.UUID { return t.ID }
func (t *TableNode) Kind() NodeKind    { return KindTable }
func (t *TableNode) Position() Point   { return Point{X: t.X, Y: t.Y} }
func (t *TableNode) isNode()           {}

func (t *TableNode) GetID() uuid.UUID {
	return t.ID
}

func (t *TableNode) ResourceType() string {
	return "table"
}

// Grouped reports whether the table has been joined with others.
func (t *TableNode) Grouped() bool {
	return t.GroupID != nil && *t.GroupID != uuid.Nil
}

// Clone returns a deep copy; the group id pointer is not shared.
func (t *TableNode) Clone() *TableNode {
	if t == nil {
		return nil
	}
	c := *t
	if t.GroupID != nil {
		gid := *t.GroupID
		c.GroupID = &gid
	}
	return &c
}

func (t *TableNode) normalize() {
	t.X = Clamp01(t.X)
	t.Y = Clamp01(t.Y)
	t.SizeRatio = ClampSizeRatio(t.SizeRatio)
	if t.Seats < MinSeats {
		t.Seats = MinSeats
	}
}

// ObjectNode is a decorative or structural fixture such as a stage.
type ObjectNode struct {
	ID     uuid.UUID  `json:"id" bson:"id"`
	Label  string     `json:"label" bson:"label"`
	Type   ObjectType `json:"type" bson:"type"`
	X      float64    `json:"x" bson:"x"`
	Y      float64    `json:"y" bson:"y"`
	Width  float64    `json:"width" bson:"width"`
	Height float64    `json:"height" bson:"height"`
	Color  string     `json:"color" bson:"color"`
}

func (o *ObjectNode) NodeID() uuid.UUID { return o.ID }
func (o *ObjectNode) Kind() NodeKind    { return KindObject }
func (o *ObjectNode) Position() Point   { return Point{X: o.X, Y: o.Y} }
func (o *ObjectNode) isNode()           {}

func (o *ObjectNode) GetID() uuid.UUID {
	return o.ID
}

func (o *ObjectNode) ResourceType() string {
	return "object"
}

func (o *ObjectNode) Clone() *ObjectNode {
	if o == nil {
		return nil
	}
	c := *o
	return &c
}

func (o *ObjectNode) normalize() {
	o.X = Clamp01(o.X)
	o.Y = Clamp01(o.Y)
	o.Width = Clamp01(o.Width)
	o.Height = Clamp01(o.Height)
}
