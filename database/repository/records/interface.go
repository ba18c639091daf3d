package recordsRepo

import (
	"context"
	"fmt"
	"time"

	"homestay/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ContentRecordRepository stores admin-managed records, one collection per kind.
type ContentRecordRepository interface {
	Save(ctx context.Context, record *models.ContentRecord) error
	GetByID(ctx context.Context, kind models.ContentKind, id string) (*models.ContentRecord, error)
	List(ctx context.Context, kind models.ContentKind, publishedOnly bool) ([]models.ContentRecord, error)
	Delete(ctx context.Context, kind models.ContentKind, id string) error
}

type mongoRecordRepo struct {
	db *mongo.Database
}

// NewMongoRecordRepo returns a ContentRecordRepository backed by MongoDB.
func NewMongoRecordRepo(db *mongo.Database) (ContentRecordRepository, error) {
	repo := &mongoRecordRepo{db: db}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, kind := range models.ContentKinds {
		_, err := repo.coll(kind).Indexes().CreateMany(ctx, []mongo.IndexModel{
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "published", Value: 1}, {Key: "sort_order", Value: 1}}},
		})
		if err != nil {
			return repo, fmt.Errorf("failed to create %s indexes: %w", kind, err)
		}
	}
	return repo, nil
}

func (r *mongoRecordRepo) coll(kind models.ContentKind) *mongo.Collection {
	return r.db.Collection(string(kind))
}
