package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/floorplan/pkg"
)

const eventLogConsumer = "floorplan-utils"

// EventLog prints up to limit floor plan events retained by the JetStream
// stream that the durable utils consumer has not seen yet.
func EventLog(ctx context.Context, config *apt.Config, logger apt.Logger, limit int, out io.Writer) error {
	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")

	stream, err := pkg.NewNATSStream(ctx, pkg.DefaultStreamConfig(natsURL, eventLogConsumer))
	if err != nil {
		return err
	}
	defer stream.Close()

	messages, err := stream.Fetch(ctx, limit)
	if err != nil {
		return err
	}

	logger.Info("Fetched floor plan events", "count", len(messages))
	for _, msg := range messages {
		if _, err := fmt.Fprintln(out, formatEvent(msg)); err != nil {
			return err
		}
	}
	return nil
}

func formatEvent(msg events.StreamMessage) string {
	at := time.Unix(0, msg.Timestamp).UTC().Format(time.RFC3339)

	evt, err := pkg.DecodeEvent(msg.Data)
	if err != nil {
		return fmt.Sprintf("#%d %s undecodable: %v", msg.Sequence, at, err)
	}

	switch e := evt.(type) {
	case pkg.PlanSavedEvent:
		return fmt.Sprintf("#%d %s plan saved %s (%s) tables=%d objects=%d by=%s",
			msg.Sequence, at, e.PlanID, e.Name, e.Tables, e.Objects, e.UpdatedBy)
	case pkg.PlanDeletedEvent:
		return fmt.Sprintf("#%d %s plan deleted %s by=%s", msg.Sequence, at, e.PlanID, e.Source)
	case pkg.BookingEvent:
		line := fmt.Sprintf("#%d %s %s plan=%s table=%s user=%s time=%s",
			msg.Sequence, at, e.EventType, e.PlanID, e.TableID, e.UserID, e.Time)
		if e.Reason != "" {
			line += " reason=" + e.Reason
		}
		return line
	default:
		return fmt.Sprintf("#%d %s %v", msg.Sequence, at, evt)
	}
}
