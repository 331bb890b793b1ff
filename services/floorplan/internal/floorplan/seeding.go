package floorplan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/seed"
	"github.com/appetiteclub/floorplan/services/floorplan/internal/plan"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	planSeedApplication = "floorplan"
	seedActor           = "seed:bootstrap"
)

type bootstrapSeedDocument struct {
	Plans []planSeed `json:"plans"`
}

type planSeed struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Tables  []tableSeed  `json:"tables"`
	Objects []objectSeed `json:"objects"`
}

type tableSeed struct {
	Label     string  `json:"label"`
	Zone      string  `json:"zone"`
	Size      string  `json:"size"`
	Status    string  `json:"status"`
	Shape     string  `json:"shape"`
	Seats     int     `json:"seats"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	SizeRatio float64 `json:"size_ratio"`
	Desc      string  `json:"desc"`
}

type objectSeed struct {
	Type   string  `json:"type"`
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  string  `json:"color"`
}

func loadPlanSeeds(seedFS fs.FS) ([]planSeed, error) {
	seedBytes, err := fs.ReadFile(seedFS, "seed.json")
	if err != nil {
		return nil, fmt.Errorf("read seed.json: %w", err)
	}

	if len(seedBytes) == 0 {
		return nil, errors.New("plan seed file is empty")
	}

	var doc bootstrapSeedDocument
	if err := json.Unmarshal(seedBytes, &doc); err != nil {
		return nil, fmt.Errorf("decode plan seed file: %w", err)
	}

	if len(doc.Plans) == 0 {
		return nil, errors.New("plan seed file does not contain plans")
	}

	return doc.Plans, nil
}

// ApplyPlanSeeds ensures every predefined plan exists. defaultID, when set,
// is given to the first seeded plan.
func ApplyPlanSeeds(ctx context.Context, repo PlanRepo, seedFS fs.FS, defaultID uuid.UUID, logger apt.Logger) error {
	if repo == nil {
		return errors.New("plan repository is required")
	}

	seedDocs, err := loadPlanSeeds(seedFS)
	if err != nil {
		return err
	}

	if defaultID != uuid.Nil && seedDocs[0].ID == "" {
		seedDocs[0].ID = defaultID.String()
	}

	seedDefs := buildPlanSeedDefinitions(seedDocs, repo, logger)
	if len(seedDefs) == 0 {
		logger.Info("No plan seeds to apply")
		return nil
	}

	tracker, err := trackerFromRepo(repo)
	if err != nil {
		return err
	}

	logger.Info("Applying plan seeds")
	if err := seed.Apply(ctx, tracker, seedDefs, planSeedApplication); err != nil {
		return err
	}
	logger.Info("Plan seeds applied successfully")
	return nil
}

func trackerFromRepo(repo PlanRepo) (seed.Tracker, error) {
	provider, ok := repo.(mongoDatabaseProvider)
	if !ok {
		return nil, errors.New("plan repository does not expose MongoDB access for seeding")
	}
	db := provider.GetDatabase()
	if db == nil {
		return nil, errors.New("plan repository database is not initialized")
	}
	return seed.NewMongoTracker(db), nil
}

type mongoDatabaseProvider interface {
	GetDatabase() *mongo.Database
}

func buildPlanSeedDefinitions(raw []planSeed, repo PlanRepo, logger apt.Logger) []seed.Seed {
	var defs []seed.Seed

	for _, s := range raw {
		seedData := s
		if strings.TrimSpace(seedData.Name) == "" {
			logger.Info("Skipping seed plan with empty name")
			continue
		}

		logger.Info("Including seed plan", "name", seedData.Name, "tables", len(seedData.Tables), "objects", len(seedData.Objects))

		defs = append(defs, seed.Seed{
			ID:          fmt.Sprintf("2025-01-01_floorplan_%s", seedIdentifier(seedData.Name)),
			Description: fmt.Sprintf("Ensure floor plan %s exists", seedData.Name),
			Run: func(ctx context.Context) error {
				return seedData.ensurePlan(ctx, repo, logger)
			},
		})
	}

	return defs
}

func seedIdentifier(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}

	replacer := strings.NewReplacer("-", "_", " ", "_", "/", "_", "\\", "_")
	value = replacer.Replace(value)

	var builder strings.Builder
	for _, r := range value {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			builder.WriteRune(r)
		}
	}

	result := builder.String()
	if result == "" {
		return "seed"
	}
	return result
}

func (s planSeed) ensurePlan(ctx context.Context, repo PlanRepo, logger apt.Logger) error {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return errors.New("plan name is required")
	}

	existing, err := repo.GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("look up seed plan %s: %w", name, err)
	}
	if existing != nil {
		logger.Info("Seed plan already exists", "name", name, "id", existing.ID.String())
		return nil
	}

	p, err := s.build()
	if err != nil {
		return err
	}

	if err := repo.Create(ctx, p); err != nil {
		return fmt.Errorf("create seed plan %s: %w", name, err)
	}

	logger.Info("Seed plan created", "name", name, "id", p.ID.String())
	return nil
}

// build lays the seeded nodes out through a Store so they get the same
// defaults and clamping as nodes placed in the editor.
func (s planSeed) build() (*plan.Plan, error) {
	meta := plan.NewPlan(strings.TrimSpace(s.Name))
	if s.ID != "" {
		id, err := uuid.Parse(s.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid seed plan id %q: %w", s.ID, err)
		}
		meta.ID = id
	}

	store := plan.NewStore()

	for _, ts := range s.Tables {
		zone, ok := plan.ParseZone(ts.Zone)
		if !ok {
			zone = plan.ZoneA
		}
		size, ok := plan.ParseSize(ts.Size)
		if !ok {
			size = plan.SizeMedium
		}

		t := store.MakeTableNode(zone, size, ts.X, ts.Y)
		if label := strings.TrimSpace(ts.Label); label != "" {
			t.Label = label
		}
		if status, ok := plan.ParseStatus(ts.Status); ok {
			t.Status = status
		}
		if shape, ok := plan.ParseShape(ts.Shape); ok {
			t.Shape = shape
		}
		if ts.Seats > 0 {
			t.Seats = ts.Seats
		}
		if ts.SizeRatio > 0 {
			t.SizeRatio = ts.SizeRatio
		}
		t.Desc = ts.Desc
		store.Add(t)
	}

	for _, obj := range s.Objects {
		typ, ok := plan.ParseObjectType(obj.Type)
		if !ok {
			typ = plan.ObjectStage
		}

		o := store.MakeObjectNode(typ, obj.X, obj.Y)
		if label := strings.TrimSpace(obj.Label); label != "" {
			o.Label = label
		}
		if obj.Width > 0 {
			o.Width = obj.Width
		}
		if obj.Height > 0 {
			o.Height = obj.Height
		}
		if obj.Color != "" {
			o.Color = obj.Color
		}
		store.Add(o)
	}

	p := store.Snapshot(meta)
	p.CreatedBy = seedActor
	p.UpdatedBy = seedActor
	p.BeforeCreate()
	return p, nil
}

// SeedingFunc returns a lifecycle OnStart-compatible function which starts
// applying plan seeds in the background.
func SeedingFunc(seedCtx context.Context, repo PlanRepo, seedFS fs.FS, defaultID uuid.UUID, logger apt.Logger) func(ctx context.Context) error {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}

	return func(ctx context.Context) error {
		logger.Info("Starting plan seeding in background")
		go func() {
			if err := ApplyPlanSeeds(seedCtx, repo, seedFS, defaultID, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("❌ Plan seeds failed: %v", err)
			} else if err == nil {
				logger.Info("✓ Plan seeding completed successfully")
			}
		}()
		return nil
	}
}

// StopFunc returns a lifecycle OnStop-compatible function which calls the
// provided cancel function to stop any background seeding goroutine.
func StopFunc(cancelFunc context.CancelFunc) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if cancelFunc != nil {
			cancelFunc()
		}
		return nil
	}
}
