package mongo

import (
	"context"
	"fmt"

	"github.com/agenticai/patterns/internal/model"
	"github.com/agenticai/patterns/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *Repository) CreateTask(ctx context.Context, task *model.Task) error {
	id, err := db.nextID(ctx, taskSequence)
	if err != nil {
		return err
	}

	task.ID = id

	doc := taskFromModel(task)
	if _, err := db.tasks.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	// report what a later read returns
	task.CreatedAt = doc.CreateTime

	return nil
}

func (db *Repository) GetTask(ctx context.Context, id int) (*model.Task, error) {
	res := db.tasks.FindOne(ctx, bson.M{"_id": id})
	if err := res.Err(); err != nil {
		return nil, convertErr(err)
	}

	var t Task
	if err := res.Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to decode task document: %w", err)
	}

	return t.ToModel(), nil
}

func (db *Repository) ListTasks(ctx context.Context) ([]*model.Task, error) {
	cursor, err := db.tasks.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to perform find operation: %w", err)
	}

	var docs []Task
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode task documents: %w", err)
	}

	result := make([]*model.Task, len(docs))
	for idx := range docs {
		result[idx] = docs[idx].ToModel()
	}

	return result, nil
}

func (db *Repository) UpdateTask(ctx context.Context, id int, update model.TaskUpdate) (*model.Task, error) {
	if update.IsEmpty() {
		return db.GetTask(ctx, id)
	}

	set := bson.M{}

	if update.Title != nil {
		set["title"] = *update.Title
	}

	if update.Description != nil {
		set["description"] = *update.Description
	}

	if update.Completed != nil {
		set["completed"] = *update.Completed
	}

	res := db.tasks.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := res.Err(); err != nil {
		return nil, convertErr(err)
	}

	var t Task
	if err := res.Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to decode task document: %w", err)
	}

	return t.ToModel(), nil
}

func (db *Repository) DeleteTask(ctx context.Context, id int) error {
	res, err := db.tasks.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to perform delete operation: %w", err)
	}

	if res.DeletedCount == 0 {
		return repo.ErrTaskNotFound
	}

	return nil
}
