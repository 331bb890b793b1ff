package plan

import "github.com/google/uuid"

type ModeKind int

const (
	ModeViewing ModeKind = iota
	ModeEditing
	ModePlacing
	ModeJoining
)

func (k ModeKind) String() string {
	switch k {
	case ModeEditing:
		return "editing"
	case ModePlacing:
		return "placing"
	case ModeJoining:
		return "joining"
	default:
		return "viewing"
	}
}

// Placement describes the node the next canvas click drops.
type Placement interface {
	Kind() NodeKind
	isPlacement()
}

type TablePlacement struct {
	Zone Zone
	Size Size
}

func (TablePlacement) Kind() NodeKind { return KindTable }
func (TablePlacement) isPlacement()   {}

type ObjectPlacement struct {
	Type ObjectType
}

func (ObjectPlacement) Kind() NodeKind { return KindObject }
func (ObjectPlacement) isPlacement()   {}

// Mode is the single editor state. Placing and joining are tools that only
// exist inside editing, so a placing tool cannot be active while joining and
// neither can be active while viewing.
type Mode struct {
	kind      ModeKind
	placement Placement
	joinSel   []uuid.UUID
}

func viewing() Mode { return Mode{kind: ModeViewing} }
func editing() Mode { return Mode{kind: ModeEditing} }

func placing(p Placement) Mode {
	return Mode{kind: ModePlacing, placement: p}
}

func joining() Mode {
	return Mode{kind: ModeJoining, joinSel: []uuid.UUID{}}
}

func (m Mode) Kind() ModeKind { return m.kind }

// Editing reports whether mutations are permitted.
func (m Mode) Editing() bool {
	return m.kind != ModeViewing
}

func (m Mode) Placement() (Placement, bool) {
	if m.kind != ModePlacing || m.placement == nil {
		return nil, false
	}
	return m.placement, true
}

// JoinSelection returns a copy of the ids picked in joining mode, in pick order.
func (m Mode) JoinSelection() []uuid.UUID {
	if m.kind != ModeJoining {
		return nil
	}
	out := make([]uuid.UUID, len(m.joinSel))
	copy(out, m.joinSel)
	return out
}

func (m Mode) joinSelected(id uuid.UUID) bool {
	for _, sel := range m.joinSel {
		if sel == id {
			return true
		}
	}
	return false
}

func (m *Mode) toggleJoin(id uuid.UUID) {
	for i, sel := range m.joinSel {
		if sel == id {
			m.joinSel = append(m.joinSel[:i], m.joinSel[i+1:]...)
			return
		}
	}
	m.joinSel = append(m.joinSel, id)
}
