package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/agenticai/patterns/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const taskSequence = "tasks"

type Repository struct {
	client   *mongo.Client
	tasks    *mongo.Collection
	counters *mongo.Collection
}

func New(ctx context.Context, uri, dbName string) (*Repository, error) {
	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongodb client: %w", err)
	}

	if err := cli.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb server: %w", err)
	}

	db := cli.Database(dbName)

	repo := &Repository{
		client:   cli,
		tasks:    db.Collection("tasks"),
		counters: db.Collection("counters"),
	}

	if err := repo.setup(ctx); err != nil {
		return nil, fmt.Errorf("failed to setup collection: %w", err)
	}

	return repo, nil
}

func (db *Repository) setup(ctx context.Context) error {
	// make sure the sequence document exists without resetting it
	_, err := db.counters.UpdateOne(
		ctx,
		bson.M{"_id": taskSequence},
		bson.M{"$setOnInsert": bson.M{"seq": 0}},
		options.Update().SetUpsert(true),
	)

	return err
}

// Close disconnects the underlying client.
func (db *Repository) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

// nextID atomically increments and returns the sequence named name.
func (db *Repository) nextID(ctx context.Context, name string) (int, error) {
	res := db.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)

	var counter struct {
		Seq int `bson:"seq"`
	}
	if err := res.Decode(&counter); err != nil {
		return 0, fmt.Errorf("failed to increment sequence %q: %w", name, err)
	}

	return counter.Seq, nil
}

// Compile-time check
var _ repo.TaskBackend = (*Repository)(nil)

func convertErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return repo.ErrTaskNotFound
	}

	return err
}
