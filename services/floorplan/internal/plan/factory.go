package plan

import (
	"fmt"

	"github.com/appetiteclub/apt"
)

const (
	MinSeats = 1

	// Size ratio is a fraction of the container's shorter side.
	MinSizeRatio = 0.03
	MaxSizeRatio = 0.2
)

type sizeDefault struct {
	seats int
	ratio float64
}

var sizeDefaults = map[Size]sizeDefault{
	SizeSmall:  {seats: 2, ratio: 0.06},
	SizeMedium: {seats: 4, ratio: 0.075},
	SizeLarge:  {seats: 6, ratio: 0.09},
}

type objectDefault struct {
	label  string
	width  float64
	height float64
	color  string
}

var objectDefaults = map[ObjectType]objectDefault{
	ObjectStage:  {label: "Stage", width: 0.30, height: 0.15, color: "#fdba74"},
	ObjectScreen: {label: "Screen", width: 0.12, height: 0.08, color: "#34d399"},
}

// DefaultSeats returns the seat count a new table of the given size gets.
func DefaultSeats(size Size) int {
	if d, ok := sizeDefaults[size]; ok {
		return d.seats
	}
	return sizeDefaults[SizeMedium].seats
}

// DefaultSizeRatio returns the footprint a new table of the given size gets.
func DefaultSizeRatio(size Size) float64 {
	if d, ok := sizeDefaults[size]; ok {
		return d.ratio
	}
	return sizeDefaults[SizeMedium].ratio
}

func ClampSizeRatio(v float64) float64 {
	return clamp(v, MinSizeRatio, MaxSizeRatio)
}

// NewTableNode builds a table with every field defaulted. The label is the
// zone followed by ordinal; callers pick the ordinal (see Store.MakeTableNode).
func NewTableNode(zone Zone, size Size, x, y float64, ordinal int) *TableNode {
	if !zone.Valid() {
		zone = ZoneA
	}
	if !size.Valid() {
		size = SizeMedium
	}

	t := &TableNode{
		ID:        apt.GenerateNewID(),
		Label:     fmt.Sprintf("%s%d", zone, ordinal),
		Zone:      zone,
		Seats:     DefaultSeats(size),
		Status:    StatusAvailable,
		X:         x,
		Y:         y,
		Size:      size,
		Shape:     ShapeSquare,
		SizeRatio: DefaultSizeRatio(size),
	}
	t.normalize()
	return t
}

// NewObjectNode builds a fixture from the per-type defaults table.
func NewObjectNode(typ ObjectType, x, y float64) *ObjectNode {
	if !typ.Valid() {
		typ = ObjectStage
	}
	d := objectDefaults[typ]

	o := &ObjectNode{
		ID:     apt.GenerateNewID(),
		Label:  d.label,
		Type:   typ,
		X:      x,
		Y:      y,
		Width:  d.width,
		Height: d.height,
		Color:  d.color,
	}
	o.normalize()
	return o
}
