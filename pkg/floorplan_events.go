package pkg

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// FloorplanSavedTopic carries committed and deleted floor plan snapshots.
	// Subscribers reload the plan from storage on either event.
	FloorplanSavedTopic = "floorplan.saved"
	// FloorplanBookingTopic carries customer booking outcomes.
	FloorplanBookingTopic = "floorplan.booking"

	// FloorplanSubjects matches every floor plan topic.
	FloorplanSubjects = "floorplan.>"
	// FloorplanStreamName is the JetStream stream retaining floor plan events.
	FloorplanStreamName = "FLOORPLAN_EVENTS"

	EventPlanSaved        = "floorplan.plan.saved"
	EventPlanDeleted      = "floorplan.plan.deleted"
	EventBookingConfirmed = "floorplan.booking.confirmed"
	EventBookingFailed    = "floorplan.booking.failed"
)

// PlanSavedEvent is emitted after a plan snapshot has been persisted.
type PlanSavedEvent struct {
	EventType  string    `json:"event_type"`
	PlanID     string    `json:"plan_id"`
	Name       string    `json:"name"`
	Tables     int       `json:"tables"`
	Objects    int       `json:"objects"`
	UpdatedBy  string    `json:"updated_by,omitempty"`
	Source     string    `json:"source,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PlanDeletedEvent is emitted after a plan has been removed from storage.
type PlanDeletedEvent struct {
	EventType  string    `json:"event_type"`
	PlanID     string    `json:"plan_id"`
	Source     string    `json:"source,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingEvent reports the result of a customer booking.
type BookingEvent struct {
	EventType  string    `json:"event_type"`
	PlanID     string    `json:"plan_id"`
	TableID    string    `json:"table_id"`
	TableLabel string    `json:"table_label,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	Name       string    `json:"name,omitempty"`
	Time       string    `json:"time,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Source     string    `json:"source,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type eventHeader struct {
	EventType string `json:"event_type"`
}

// DecodeEvent decodes a floor plan event payload into its concrete type.
func DecodeEvent(data []byte) (interface{}, error) {
	var header eventHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("cannot decode event: %w", err)
	}

	switch header.EventType {
	case EventPlanSaved:
		var evt PlanSavedEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			return nil, fmt.Errorf("cannot decode %s: %w", header.EventType, err)
		}
		return evt, nil
	case EventPlanDeleted:
		var evt PlanDeletedEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			return nil, fmt.Errorf("cannot decode %s: %w", header.EventType, err)
		}
		return evt, nil
	case EventBookingConfirmed, EventBookingFailed:
		var evt BookingEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			return nil, fmt.Errorf("cannot decode %s: %w", header.EventType, err)
		}
		return evt, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", header.EventType)
	}
}
