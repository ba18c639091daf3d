package roomRepo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"homestay/database"
	"homestay/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RoomRepository persists rooms.
type RoomRepository interface {
	Save(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id string) (*models.Room, error)
	List(ctx context.Context, activeOnly bool) ([]models.Room, error)
	Delete(ctx context.Context, id string) error
}

type mongoRoomRepo struct {
	coll *mongo.Collection
}

// NewMongoRoomRepo returns a RoomRepository over the "rooms" collection.
func NewMongoRoomRepo(db *mongo.Database) (RoomRepository, error) {
	repo := &mongoRoomRepo{coll: db.Collection("rooms")}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return repo, fmt.Errorf("failed to create room indexes: %w", err)
	}
	return repo, nil
}

// Save upserts the room by id.
func (r *mongoRoomRepo) Save(ctx context.Context, room *models.Room) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"id": room.ID}, room, opts); err != nil {
		return fmt.Errorf("failed to save room %s: %w", room.ID, err)
	}
	return nil
}

func (r *mongoRoomRepo) GetByID(ctx context.Context, id string) (*models.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var room models.Room
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&room); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch room %s: %w", id, err)
	}
	return &room, nil
}

func (r *mongoRoomRepo) List(ctx context.Context, activeOnly bool) ([]models.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve rooms: %w", err)
	}
	defer cursor.Close(ctx)

	rooms := []models.Room{}
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}
	return rooms, nil
}

func (r *mongoRoomRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete room %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

// MemoryRoomRepo keeps rooms in process.
type MemoryRoomRepo struct {
	mu    sync.Mutex
	rooms map[string]models.Room
	// SaveErr, when set, is returned by Save.
	SaveErr error
}

func NewMemoryRoomRepo(rooms ...models.Room) *MemoryRoomRepo {
	r := &MemoryRoomRepo{rooms: make(map[string]models.Room)}
	for _, room := range rooms {
		r.rooms[room.ID] = room
	}
	return r
}

func (r *MemoryRoomRepo) Save(_ context.Context, room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.rooms[room.ID] = *room
	return nil
}

func (r *MemoryRoomRepo) GetByID(_ context.Context, id string) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &room, nil
}

func (r *MemoryRoomRepo) List(_ context.Context, activeOnly bool) ([]models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Room{}
	for _, room := range r.rooms {
		if activeOnly && !room.Active {
			continue
		}
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *MemoryRoomRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; !ok {
		return database.ErrNotFound
	}
	delete(r.rooms, id)
	return nil
}
