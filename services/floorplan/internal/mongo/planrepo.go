package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/floorplan/services/floorplan/internal/floorplan"
	"github.com/appetiteclub/floorplan/services/floorplan/internal/plan"
)

const (
	defaultMongoURL = "mongodb://localhost:27017"
	defaultDBName   = "floorplan"
	plansCollection = "plans"
)

// PlanRepo stores saved plan snapshots, one document per plan.
type PlanRepo struct {
	client     *mongo.Client
	db         *mongo.Database
	collection *mongo.Collection
	logger     apt.Logger
	config     *apt.Config
}

func NewPlanRepo(config *apt.Config, logger apt.Logger) *PlanRepo {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &PlanRepo{
		logger: logger,
		config: config,
	}
}

func (r *PlanRepo) Start(ctx context.Context) error {
	connString, dbName := DatabaseSettings(r.config)

	clientOptions := options.Client().ApplyURI(connString).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("cannot connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("cannot ping MongoDB: %w", err)
	}

	r.client = client
	r.db = client.Database(dbName)
	r.collection = r.db.Collection(plansCollection)

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}},
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("cannot create index: %w", err)
	}

	r.logger.Infof("Connected to MongoDB: %s, database: %s, collection: %s", connString, dbName, plansCollection)
	return nil
}

func (r *PlanRepo) Stop(ctx context.Context) error {
	if r.client != nil {
		if err := r.client.Disconnect(ctx); err != nil {
			return fmt.Errorf("cannot disconnect from MongoDB: %w", err)
		}
		r.logger.Info("Disconnected from MongoDB")
	}
	return nil
}

func (r *PlanRepo) GetDatabase() *mongo.Database {
	return r.db
}

func (r *PlanRepo) Create(ctx context.Context, p *plan.Plan) error {
	if p == nil {
		return fmt.Errorf("plan is nil")
	}

	if _, err := r.collection.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("cannot create plan: %w", err)
	}

	return nil
}

func (r *PlanRepo) Get(ctx context.Context, id uuid.UUID) (*plan.Plan, error) {
	var p plan.Plan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get plan: %w", err)
	}
	return &p, nil
}

func (r *PlanRepo) GetByName(ctx context.Context, name string) (*plan.Plan, error) {
	var p plan.Plan
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get plan by name: %w", err)
	}
	return &p, nil
}

func (r *PlanRepo) List(ctx context.Context) ([]*plan.Plan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list plans: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*plan.Plan
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode plans: %w", err)
	}

	return result, nil
}

// Save replaces the stored snapshot. Plans that are not stored yet are
// inserted.
func (r *PlanRepo) Save(ctx context.Context, p *plan.Plan) error {
	if p == nil {
		return fmt.Errorf("plan is nil")
	}

	filter := bson.M{"_id": p.ID}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, filter, p, opts); err != nil {
		return fmt.Errorf("cannot save plan: %w", err)
	}

	return nil
}

func (r *PlanRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("cannot delete plan: %w", err)
	}

	if result.DeletedCount == 0 {
		return floorplan.ErrPlanNotFound
	}

	return nil
}

// DatabaseSettings resolves the connection string and database name from
// config, with local defaults.
func DatabaseSettings(config *apt.Config) (string, string) {
	connString := defaultMongoURL
	dbName := defaultDBName
	if config == nil {
		return connString, dbName
	}
	if url, _ := config.GetString("db.mongo.url"); url != "" {
		connString = url
	}
	if name, _ := config.GetString("db.mongo.name"); name != "" {
		dbName = name
	}
	return connString, dbName
}
