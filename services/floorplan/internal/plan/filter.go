package plan

import "strings"

// AllZones is the zone filter value that shows every zone.
const AllZones = "ALL"

// Filter selects the visible tables. The zero value shows everything.
type Filter struct {
	Zone          Zone
	AvailableOnly bool
}

// ParseFilter builds a filter from request-style values. Unknown zones fall
// back to all zones.
func ParseFilter(zone string, availableOnly bool) Filter {
	f := Filter{AvailableOnly: availableOnly}
	if strings.EqualFold(strings.TrimSpace(zone), AllZones) {
		return f
	}
	if z, ok := ParseZone(zone); ok {
		f.Zone = z
	}
	return f
}

func (f Filter) Match(t *TableNode) bool {
	if t == nil {
		return false
	}
	if f.Zone != "" && t.Zone != f.Zone {
		return false
	}
	if f.AvailableOnly && t.Status != StatusAvailable {
		return false
	}
	return true
}

// View is the render-ready projection of a plan.
type View struct {
	Tables  []*TableNode  `json:"tables"`
	Objects []*ObjectNode `json:"objects"`
}

// Apply projects p through the filter. Objects are never filtered. The
// returned nodes are copies.
func (f Filter) Apply(p *Plan) View {
	v := View{Tables: []*TableNode{}, Objects: []*ObjectNode{}}
	if p == nil {
		return v
	}
	for _, t := range p.Tables {
		if f.Match(t) {
			v.Tables = append(v.Tables, t.Clone())
		}
	}
	v.Objects = cloneObjects(p.Objects)
	return v
}
