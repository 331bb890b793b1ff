package floorplan

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"
)

func ValidateTool(ctx context.Context, req ToolRequest) []string {
	var errors []string

	switch strings.ToLower(strings.TrimSpace(req.Tool)) {
	case ToolNone, ToolTable, ToolObject, ToolJoin:
	default:
		errors = append(errors, "tool must be one of none, table, object, join")
	}

	return errors
}

func ValidatePointer(ctx context.Context, req PointerRequest) []string {
	var errors []string

	switch req.Type {
	case PointerDown:
		if req.Target == nil {
			errors = append(errors, "target is required for down events")
		}
	case PointerMove, PointerUp, PointerCancel, PointerClick:
	default:
		errors = append(errors, "type must be one of down, move, up, cancel, click")
	}

	if req.Target != nil {
		if req.Target.ID == uuid.Nil {
			errors = append(errors, "target id is required")
		}
		if !req.Target.Kind.Valid() {
			errors = append(errors, "target kind must be table or object")
		}
	}

	if !finite(req.ClientX) || !finite(req.ClientY) {
		errors = append(errors, "client coordinates must be finite")
	}

	return errors
}

func ValidateNodeUpdate(ctx context.Context, id uuid.UUID, req NodeUpdateRequest) []string {
	var errors []string

	if id == uuid.Nil {
		errors = append(errors, "invalid node id")
	}

	if req.Label != nil && strings.TrimSpace(*req.Label) == "" {
		errors = append(errors, "label cannot be empty")
	}

	for _, v := range []*float64{req.X, req.Y, req.SizeRatio, req.Width, req.Height} {
		if v != nil && !finite(*v) {
			errors = append(errors, "numeric attributes must be finite")
			break
		}
	}

	return errors
}

func ValidateBooking(ctx context.Context, req BookingRequest) []string {
	var errors []string

	if req.TableID == uuid.Nil {
		errors = append(errors, "table_id is required")
	}

	return errors
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
