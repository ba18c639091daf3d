package recordsRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homestay/database"
	"homestay/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Save upserts the record by id in its kind's collection.
func (r *mongoRecordRepo) Save(ctx context.Context, record *models.ContentRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll(record.Kind).ReplaceOne(ctx, bson.M{"id": record.ID}, record, opts); err != nil {
		return fmt.Errorf("failed to save %s record %s: %w", record.Kind, record.ID, err)
	}
	return nil
}

// GetByID returns a record by its ID.
func (r *mongoRecordRepo) GetByID(ctx context.Context, kind models.ContentKind, id string) (*models.ContentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var record models.ContentRecord
	if err := r.coll(kind).FindOne(ctx, bson.M{"id": id}).Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch %s record %s: %w", kind, id, err)
	}
	return &record, nil
}

// List returns the records of a kind in display order.
func (r *mongoRecordRepo) List(ctx context.Context, kind models.ContentKind, publishedOnly bool) ([]models.ContentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if publishedOnly {
		filter["published"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}, {Key: "created_at", Value: -1}})
	cursor, err := r.coll(kind).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	defer cursor.Close(ctx)

	records := []models.ContentRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", kind, err)
	}
	return records, nil
}

// Delete removes a record by ID.
func (r *mongoRecordRepo) Delete(ctx context.Context, kind models.ContentKind, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll(kind).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s record %s: %w", kind, id, err)
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}
