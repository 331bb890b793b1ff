package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/floorplan/pkg"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// eventSource identifies the CLI in the events it publishes.
const eventSource = "floorplan-utils"

var ErrPlanNotFound = errors.New("plan not found")

// ExportPlan writes the saved snapshot of a plan as relaxed extended JSON.
func ExportPlan(ctx context.Context, config *apt.Config, logger apt.Logger, rawID string, out io.Writer) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid plan id %q: %w", rawID, err)
	}

	client, dbName, err := connect(ctx, config, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	var doc bson.M
	err = client.Database(dbName).Collection(plansCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrPlanNotFound
	}
	if err != nil {
		return fmt.Errorf("find plan: %w", err)
	}

	return writePlan(out, doc)
}

func writePlan(out io.Writer, doc bson.M) error {
	data, err := bson.MarshalExtJSONIndent(doc, false, false, "", "  ")
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// DeletePlan removes a saved plan and announces it on the saved topic so
// running services drop their live copy. A nil publisher skips the
// announcement; those services keep the plan until they restart.
func DeletePlan(ctx context.Context, config *apt.Config, logger apt.Logger, rawID string, publisher events.Publisher) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid plan id %q: %w", rawID, err)
	}

	client, dbName, err := connect(ctx, config, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	result, err := client.Database(dbName).Collection(plansCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrPlanNotFound
	}

	logger.Info("Plan deleted", "plan_id", id.String())

	if publisher == nil {
		logger.Info("No event publisher, running services keep the plan until restart", "plan_id", id.String())
		return nil
	}
	if err := announcePlanDeleted(ctx, publisher, id); err != nil {
		logger.Error("cannot announce plan deletion", "plan_id", id.String(), "error", err)
	}
	return nil
}

func announcePlanDeleted(ctx context.Context, publisher events.Publisher, id uuid.UUID) error {
	payload, err := json.Marshal(pkg.PlanDeletedEvent{
		EventType:  pkg.EventPlanDeleted,
		PlanID:     id.String(),
		Source:     eventSource,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return publisher.Publish(ctx, pkg.FloorplanSavedTopic, payload)
}
