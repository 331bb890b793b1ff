package plan

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotEditing    = errors.New("plan is not being edited")
	ErrNothingToSave = errors.New("no changes to save")
)

// Session drives the edit lifecycle of one plan: Viewing -> Editing ->
// Viewing through Save or Cancel. The saved snapshot changes only on Save.
// While viewing, the draft mirrors the saved snapshot.
type Session struct {
	saved    *Plan
	draft    *Store
	mode     Mode
	dirty    bool
	notifier Notifier
}

func NewSession(saved *Plan, notifier Notifier) *Session {
	if saved == nil {
		saved = NewPlan("")
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}

	s := &Session{
		saved:    saved.Clone(),
		draft:    NewStore(),
		mode:     viewing(),
		notifier: notifier,
	}
	s.draft.Load(s.saved)
	return s
}

// SetNotifier swaps the notification surface, e.g. per request.
func (s *Session) SetNotifier(n Notifier) {
	if n == nil {
		n = noopNotifier{}
	}
	s.notifier = n
}

func (s *Session) Mode() Mode    { return s.mode }
func (s *Session) Editing() bool { return s.mode.Editing() }
func (s *Session) Dirty() bool   { return s.dirty }

// CanSave reports whether Save would commit anything.
func (s *Session) CanSave() bool {
	return s.mode.Editing() && s.dirty
}

// Saved returns a copy of the last committed snapshot.
func (s *Session) Saved() *Plan {
	return s.saved.Clone()
}

// Draft returns a copy of the working collections.
func (s *Session) Draft() *Plan {
	return s.draft.Snapshot(s.saved)
}

// Store exposes read access to the draft for lookups.
func (s *Session) Store() *Store {
	return s.draft
}

// EnterEdit starts editing from a fresh copy of the saved snapshot.
func (s *Session) EnterEdit() bool {
	if s.mode.Editing() {
		return false
	}
	s.draft.Load(s.saved)
	s.mode = editing()
	s.dirty = false
	return true
}

// Cancel discards the draft.
func (s *Session) Cancel() bool {
	if !s.mode.Editing() {
		return false
	}
	s.draft.Load(s.saved)
	s.mode = viewing()
	s.dirty = false
	s.notifier.Notify(MsgDiscarded, ToastDuration)
	return true
}

// Save commits the draft. It is a no-op unless editing with changes.
func (s *Session) Save() bool {
	return s.SaveWith(nil) == nil
}

// SaveWith commits the draft after commit accepts it. commit receives the
// snapshot about to become the saved one and may stamp or persist it; when it
// fails the session keeps editing with the draft intact.
func (s *Session) SaveWith(commit func(*Plan) error) error {
	if !s.mode.Editing() {
		return ErrNotEditing
	}
	if !s.dirty {
		return ErrNothingToSave
	}

	next := s.draft.Snapshot(s.saved)
	if commit != nil {
		if err := commit(next); err != nil {
			return err
		}
	}

	s.saved = next.Clone()
	s.draft.Load(s.saved)
	s.mode = viewing()
	s.dirty = false
	s.notifier.Notify(MsgSaved, ToastDuration)
	return nil
}

// Replace installs a snapshot committed elsewhere. It is refused while
// editing so an open draft is never pulled from under the editor.
func (s *Session) Replace(saved *Plan) bool {
	if s.mode.Editing() || saved == nil {
		return false
	}
	s.saved = saved.Clone()
	s.draft.Load(s.saved)
	return true
}

// StartPlacing arms the placing tool. Only valid while editing.
func (s *Session) StartPlacing(p Placement) bool {
	if !s.mode.Editing() || p == nil {
		return false
	}
	s.mode = placing(p)
	return true
}

// StartJoining switches to multi-select for grouping.
func (s *Session) StartJoining() bool {
	if !s.mode.Editing() {
		return false
	}
	s.draft.ClearSelection()
	s.mode = joining()
	return true
}

// ClearTool drops any active tool and keeps editing.
func (s *Session) ClearTool() {
	if s.mode.Editing() {
		s.mode = editing()
	}
}

// ToggleJoin adds or removes a table from the join selection.
func (s *Session) ToggleJoin(id uuid.UUID) bool {
	if s.mode.Kind() != ModeJoining {
		return false
	}
	if _, ok := s.draft.Table(id); !ok && !s.mode.joinSelected(id) {
		return false
	}
	s.mode.toggleJoin(id)
	return true
}

// Place drops the armed placement at pt and resets the tool.
func (s *Session) Place(pt Point) (Node, bool) {
	p, ok := s.mode.Placement()
	if !ok {
		return nil, false
	}

	var n Node
	switch v := p.(type) {
	case TablePlacement:
		n = s.draft.MakeTableNode(v.Zone, v.Size, pt.X, pt.Y)
	case ObjectPlacement:
		n = s.draft.MakeObjectNode(v.Type, pt.X, pt.Y)
	default:
		return nil, false
	}

	if !s.Add(n) {
		return nil, false
	}
	s.mode = editing()
	return n, true
}

// Add inserts a prepared node.
func (s *Session) Add(n Node) bool {
	if !s.mode.Editing() || !s.draft.Add(n) {
		return false
	}
	s.dirty = true
	s.notifier.Notify(MsgAdded, ToastDuration)
	return true
}

func (s *Session) Move(id uuid.UUID, x, y float64) bool {
	return s.mutate(s.mode.Editing() && s.draft.Move(id, x, y))
}

func (s *Session) Update(id uuid.UUID, patch Patch) bool {
	return s.mutate(s.mode.Editing() && s.draft.Update(id, patch))
}

func (s *Session) Remove(id uuid.UUID) bool {
	if !s.mutate(s.mode.Editing() && s.draft.Remove(id)) {
		return false
	}
	s.notifier.Notify(MsgRemoved, ToastDuration)
	return true
}

// RequestRemove asks c for confirmation before removing the node. It reports
// whether the node was removed.
func (s *Session) RequestRemove(id uuid.UUID, c Confirmer) bool {
	if !s.mode.Editing() {
		return false
	}
	n, ok := s.draft.Node(id)
	if !ok {
		return false
	}
	if c == nil {
		c = StaticConfirmer(false)
	}

	removed := false
	c.Confirm("Remove "+nodeLabel(n)+"?", func() {
		removed = s.Remove(id)
	}, nil)
	return removed
}

// Join groups the given tables. With no ids it uses the join selection.
// A successful join leaves joining mode.
func (s *Session) Join(ids []uuid.UUID) (uuid.UUID, bool) {
	if !s.mode.Editing() {
		return uuid.Nil, false
	}
	if len(ids) == 0 {
		ids = s.mode.JoinSelection()
	}

	groupID, ok := s.draft.Join(ids)
	if !s.mutate(ok) {
		return uuid.Nil, false
	}
	s.mode = editing()
	s.notifier.Notify(MsgJoined, ToastDuration)
	return groupID, true
}

func (s *Session) Ungroup(id uuid.UUID) bool {
	return s.mutate(s.mode.Editing() && s.draft.Ungroup(id))
}

// Select opens a node for viewing or editing. Outside edit mode only tables
// can be inspected.
func (s *Session) Select(ref NodeRef) bool {
	if !s.mode.Editing() && ref.Kind != KindTable {
		return false
	}
	n, ok := s.draft.Node(ref.ID)
	if !ok || n.Kind() != ref.Kind {
		return false
	}
	return s.draft.Select(ref)
}

func (s *Session) ClearSelection() {
	s.draft.ClearSelection()
}

func (s *Session) Selected() (Node, bool) {
	return s.draft.Selected()
}

func (s *Session) mutate(changed bool) bool {
	if changed {
		s.dirty = true
	}
	return changed
}

func nodeLabel(n Node) string {
	switch v := n.(type) {
	case *TableNode:
		return v.Label
	case *ObjectNode:
		return v.Label
	}
	return ""
}
