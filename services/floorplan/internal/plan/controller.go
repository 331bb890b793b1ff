package plan

import "math"

// ClickSlop is the pointer travel, in pixels, above which a press counts as a
// drag and the trailing click is swallowed.
const ClickSlop = 4.0

type dragState struct {
	ref    NodeRef
	offset Offset
	start  Pointer
	moved  bool
}

// Controller turns pointer and click events into session operations. One
// pointer at a time; events must arrive in order.
type Controller struct {
	session      *Session
	drag         *dragState
	swallowClick bool
}

func NewController(s *Session) *Controller {
	return &Controller{session: s}
}

func (c *Controller) Session() *Session {
	return c.session
}

// Dragging reports whether a drag is in flight.
func (c *Controller) Dragging() bool {
	return c.drag != nil
}

// DragTarget returns the node being dragged.
func (c *Controller) DragTarget() (NodeRef, bool) {
	if c.drag == nil {
		return NodeRef{}, false
	}
	return c.drag.ref, true
}

// PointerDown handles a press on a node. In joining mode it toggles the node
// in the join selection; otherwise, while editing, it starts a drag that keeps
// the grab point under the pointer.
func (c *Controller) PointerDown(target NodeRef, p Pointer, rect Rect) bool {
	c.swallowClick = false
	mode := c.session.Mode()

	if mode.Kind() == ModeJoining {
		if target.Kind != KindTable {
			return false
		}
		c.swallowClick = true
		return c.session.ToggleJoin(target.ID)
	}

	if !mode.Editing() || !rect.HasExtent() {
		return false
	}

	n, ok := c.session.Store().Node(target.ID)
	if !ok || n.Kind() != target.Kind {
		return false
	}

	c.drag = &dragState{
		ref:    RefOf(n),
		offset: GrabOffset(rect, p, n.Position()),
		start:  p,
	}
	return true
}

// PointerMove moves the dragged node, if any.
func (c *Controller) PointerMove(p Pointer, rect Rect) bool {
	if c.drag == nil {
		return false
	}

	pt, ok := ToNormalized(rect, p, c.drag.offset)
	if !ok {
		return false
	}

	if !c.drag.moved && math.Hypot(p.ClientX-c.drag.start.ClientX, p.ClientY-c.drag.start.ClientY) > ClickSlop {
		c.drag.moved = true
	}

	return c.session.Move(c.drag.ref.ID, pt.X, pt.Y)
}

// PointerUp ends any drag, wherever the pointer is.
func (c *Controller) PointerUp() {
	if c.drag != nil && c.drag.moved {
		c.swallowClick = true
	}
	c.drag = nil
}

// PointerCancel ends any drag like PointerUp.
func (c *Controller) PointerCancel() {
	c.PointerUp()
}

// ClickCanvas handles a click on empty canvas. With the placing tool armed it
// drops a new node at the click position and returns it.
func (c *Controller) ClickCanvas(p Pointer, rect Rect) (Node, bool) {
	c.swallowClick = false
	if _, ok := c.session.Mode().Placement(); !ok {
		return nil, false
	}

	pt, ok := ToNormalized(rect, p, Offset{})
	if !ok {
		return nil, false
	}
	return c.session.Place(pt)
}

// ClickNode opens a node for inspection. Clicks that end a drag, and clicks
// in joining mode, are ignored.
func (c *Controller) ClickNode(target NodeRef) bool {
	if c.swallowClick {
		c.swallowClick = false
		return false
	}
	if c.session.Mode().Kind() == ModeJoining {
		return false
	}
	return c.session.Select(target)
}

// Reset drops drag state, e.g. when the session leaves edit mode.
func (c *Controller) Reset() {
	c.drag = nil
	c.swallowClick = false
}
