package plan

// Patch is a partial attribute set for one node kind. Nil fields are left
// untouched by Store.Update.
type Patch interface {
	Kind() NodeKind
	isPatch()
}

type TablePatch struct {
	Label     *string  `json:"label,omitempty"`
	Zone      *Zone    `json:"zone,omitempty"`
	Seats     *int     `json:"seats,omitempty"`
	Status    *Status  `json:"status,omitempty"`
	X         *float64 `json:"x,omitempty"`
	Y         *float64 `json:"y,omitempty"`
	Size      *Size    `json:"size,omitempty"`
	Shape     *Shape   `json:"shape,omitempty"`
	SizeRatio *float64 `json:"size_ratio,omitempty"`
	Desc      *string  `json:"desc,omitempty"`
}

func (TablePatch) Kind() NodeKind { return KindTable }
func (TablePatch) isPatch()       {}

type ObjectPatch struct {
	Label  *string     `json:"label,omitempty"`
	Type   *ObjectType `json:"type,omitempty"`
	X      *float64    `json:"x,omitempty"`
	Y      *float64    `json:"y,omitempty"`
	Width  *float64    `json:"width,omitempty"`
	Height *float64    `json:"height,omitempty"`
	Color  *string     `json:"color,omitempty"`
}

func (ObjectPatch) Kind() NodeKind { return KindObject }
func (ObjectPatch) isPatch()       {}

// apply merges the patch. Enum values that are not recognised are ignored
// rather than stored.
func (p TablePatch) apply(t *TableNode) {
	if p.Label != nil {
		t.Label = *p.Label
	}
	if p.Zone != nil && p.Zone.Valid() {
		t.Zone = *p.Zone
	}
	if p.Seats != nil {
		t.Seats = *p.Seats
	}
	if p.Status != nil && p.Status.Valid() {
		t.Status = *p.Status
	}
	if p.X != nil {
		t.X = *p.X
	}
	if p.Y != nil {
		t.Y = *p.Y
	}
	if p.Size != nil && p.Size.Valid() {
		t.Size = *p.Size
	}
	if p.Shape != nil && p.Shape.Valid() {
		t.Shape = *p.Shape
	}
	if p.SizeRatio != nil {
		t.SizeRatio = *p.SizeRatio
	}
	if p.Desc != nil {
		t.Desc = *p.Desc
	}
	t.normalize()
}

func (p ObjectPatch) apply(o *ObjectNode) {
	if p.Label != nil {
		o.Label = *p.Label
	}
	if p.Type != nil && p.Type.Valid() {
		o.Type = *p.Type
	}
	if p.X != nil {
		o.X = *p.X
	}
	if p.Y != nil {
		o.Y = *p.Y
	}
	if p.Width != nil {
		o.Width = *p.Width
	}
	if p.Height != nil {
		o.Height = *p.Height
	}
	if p.Color != nil {
		o.Color = *p.Color
	}
	o.normalize()
}
