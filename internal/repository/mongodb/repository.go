package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agrarwerk/stallbuch/internal/domain/models"
)

// Repository defines the interface for metrics snapshot storage.
type Repository interface {
	SaveSnapshot(ctx context.Context, snapshot models.MetricsSnapshot) error
	LatestForCycle(ctx context.Context, cycleID string) (*models.MetricsSnapshot, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "metrics_snapshots",
	}, nil
}

// SaveSnapshot persists one computed metrics snapshot.
func (r *MongoDBRepository) SaveSnapshot(ctx context.Context, snapshot models.MetricsSnapshot) error {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	_, err := collection.InsertOne(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("failed to insert metrics snapshot: %w", err)
	}
	return nil
}

// LatestForCycle returns the most recently computed snapshot for a cycle, or
// nil when none exists yet.
func (r *MongoDBRepository) LatestForCycle(ctx context.Context, cycleID string) (*models.MetricsSnapshot, error) {
	collection := r.client.Database(r.dbName).Collection(r.collName)

	opts := options.FindOne().SetSort(bson.D{{Key: "computed_at", Value: -1}})
	var snapshot models.MetricsSnapshot
	err := collection.FindOne(ctx, bson.M{"cycle_id": cycleID}, opts).Decode(&snapshot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest snapshot: %w", err)
	}
	return &snapshot, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
