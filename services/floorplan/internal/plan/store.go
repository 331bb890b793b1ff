package plan

import (
	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// Store owns the draft collections of a plan. Every mutation goes through it
// and re-clamps bounded fields. Readers get copies.
type Store struct {
	tables   []*TableNode
	objects  []*ObjectNode
	selected *NodeRef
}

func NewStore() *Store {
	return &Store{
		tables:  []*TableNode{},
		objects: []*ObjectNode{},
	}
}

// Load replaces the draft with a deep copy of p and clears the selection.
func (s *Store) Load(p *Plan) {
	s.selected = nil
	if p == nil {
		s.tables = []*TableNode{}
		s.objects = []*ObjectNode{}
		return
	}
	s.tables = cloneTables(p.Tables)
	s.objects = cloneObjects(p.Objects)
}

// Tables returns a copy of the table collection in insertion order.
func (s *Store) Tables() []*TableNode {
	return cloneTables(s.tables)
}

func (s *Store) Objects() []*ObjectNode {
	return cloneObjects(s.objects)
}

// Node looks a node up by id in either collection.
func (s *Store) Node(id uuid.UUID) (Node, bool) {
	if t := s.findTable(id); t != nil {
		return t.Clone(), true
	}
	if o := s.findObject(id); o != nil {
		return o.Clone(), true
	}
	return nil, false
}

func (s *Store) Table(id uuid.UUID) (*TableNode, bool) {
	t := s.findTable(id)
	if t == nil {
		return nil, false
	}
	return t.Clone(), true
}

func (s *Store) Object(id uuid.UUID) (*ObjectNode, bool) {
	o := s.findObject(id)
	if o == nil {
		return nil, false
	}
	return o.Clone(), true
}

// Len returns the number of nodes across both collections.
func (s *Store) Len() int {
	return len(s.tables) + len(s.objects)
}

// MakeTableNode builds a new table for zone. Its ordinal is the number of
// tables currently in the zone plus one, so labels can repeat after deletes.
func (s *Store) MakeTableNode(zone Zone, size Size, x, y float64) *TableNode {
	n := 0
	for _, t := range s.tables {
		if t.Zone == zone {
			n++
		}
	}
	return NewTableNode(zone, size, x, y, n+1)
}

func (s *Store) MakeObjectNode(typ ObjectType, x, y float64) *ObjectNode {
	return NewObjectNode(typ, x, y)
}

// Add appends the node to its collection and selects it. Nodes whose id is
// already present are rejected.
func (s *Store) Add(n Node) bool {
	if n == nil || s.has(n.NodeID()) {
		return false
	}

	switch v := n.(type) {
	case *TableNode:
		t := v.Clone()
		t.normalize()
		s.tables = append(s.tables, t)
	case *ObjectNode:
		o := v.Clone()
		o.normalize()
		s.objects = append(s.objects, o)
	default:
		return false
	}

	ref := RefOf(n)
	s.selected = &ref
	return true
}

// Move sets the position of the node with id, clamped to the plan space.
func (s *Store) Move(id uuid.UUID, x, y float64) bool {
	if t := s.findTable(id); t != nil {
		t.X, t.Y = Clamp01(x), Clamp01(y)
		return true
	}
	if o := s.findObject(id); o != nil {
		o.X, o.Y = Clamp01(x), Clamp01(y)
		return true
	}
	return false
}

// Update merges patch into the node with id. A patch for the other node kind
// is a no-op.
func (s *Store) Update(id uuid.UUID, patch Patch) bool {
	switch p := patch.(type) {
	case TablePatch:
		t := s.findTable(id)
		if t == nil {
			return false
		}
		p.apply(t)
		return true
	case *TablePatch:
		if p == nil {
			return false
		}
		return s.Update(id, *p)
	case ObjectPatch:
		o := s.findObject(id)
		if o == nil {
			return false
		}
		p.apply(o)
		return true
	case *ObjectPatch:
		if p == nil {
			return false
		}
		return s.Update(id, *p)
	}
	return false
}

// Remove deletes the node with id and clears the selection if it pointed at it.
func (s *Store) Remove(id uuid.UUID) bool {
	removed := false
	for i, t := range s.tables {
		if t.ID == id {
			s.tables = append(s.tables[:i], s.tables[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		for i, o := range s.objects {
			if o.ID == id {
				s.objects = append(s.objects[:i], s.objects[i+1:]...)
				removed = true
				break
			}
		}
	}

	if removed && s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	return removed
}

// Join assigns one fresh group id to every table in ids. Fewer than two
// matching tables leaves everything untouched.
func (s *Store) Join(ids []uuid.UUID) (uuid.UUID, bool) {
	members := make([]*TableNode, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if t := s.findTable(id); t != nil {
			members = append(members, t)
		}
	}

	if len(members) < 2 {
		return uuid.Nil, false
	}

	groupID := apt.GenerateNewID()
	for _, t := range members {
		gid := groupID
		t.GroupID = &gid
	}
	return groupID, true
}

// Ungroup clears the group of a single table. Other members keep theirs.
func (s *Store) Ungroup(id uuid.UUID) bool {
	t := s.findTable(id)
	if t == nil || t.GroupID == nil {
		return false
	}
	t.GroupID = nil
	return true
}

// GroupMembers returns the tables sharing groupID.
func (s *Store) GroupMembers(groupID uuid.UUID) []*TableNode {
	var out []*TableNode
	for _, t := range s.tables {
		if t.GroupID != nil && *t.GroupID == groupID {
			out = append(out, t.Clone())
		}
	}
	return out
}

func (s *Store) Select(ref NodeRef) bool {
	if !s.has(ref.ID) {
		return false
	}
	s.selected = &ref
	return true
}

func (s *Store) ClearSelection() {
	s.selected = nil
}

// Selected returns the currently selected node, if it still exists.
func (s *Store) Selected() (Node, bool) {
	if s.selected == nil {
		return nil, false
	}
	return s.Node(s.selected.ID)
}

// Snapshot deep-copies the draft into a plan value carrying meta's identity.
func (s *Store) Snapshot(meta *Plan) *Plan {
	var p Plan
	if meta != nil {
		p = *meta
	}
	p.Tables = cloneTables(s.tables)
	p.Objects = cloneObjects(s.objects)
	return &p
}

func (s *Store) has(id uuid.UUID) bool {
	return s.findTable(id) != nil || s.findObject(id) != nil
}

func (s *Store) findTable(id uuid.UUID) *TableNode {
	for _, t := range s.tables {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *Store) findObject(id uuid.UUID) *ObjectNode {
	for _, o := range s.objects {
		if o.ID == id {
			return o
		}
	}
	return nil
}
