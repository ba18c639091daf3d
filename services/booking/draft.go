package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"homestay/database"
	"homestay/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// DraftTTL bounds how long an unfinished booking is kept.
const DraftTTL = 30 * time.Minute

const draftKeyPrefix = "draft:"

// ErrDraftNotFound is returned when a draft expired or never existed.
var ErrDraftNotFound = errors.New("draft not found")

// DraftStore holds drafts between wizard steps.
type DraftStore interface {
	Save(ctx context.Context, draft *models.BookingDraft) error
	Get(ctx context.Context, id string) (*models.BookingDraft, error)
	Delete(ctx context.Context, id string) error
}

// BuildDraft validates the input against the room and prices it.
func BuildDraft(room *models.Room, in models.DraftInput, p Pricer) (*models.BookingDraft, error) {
	checkIn, err := ParseDate(in.CheckInDate)
	if err != nil {
		return nil, ValidationError("%v", err)
	}
	checkOut, err := ParseDate(in.CheckOutDate)
	if err != nil {
		return nil, ValidationError("%v", err)
	}
	if !checkIn.Before(checkOut) {
		return nil, ValidationError("check-in date must be before check-out date")
	}
	if in.Guests <= 0 {
		return nil, ValidationError("guest count must be positive")
	}
	if room.MaxGuests > 0 && in.Guests > room.MaxGuests {
		return nil, ValidationError("room %s allows at most %d guests", room.Name, room.MaxGuests)
	}

	return &models.BookingDraft{
		RoomID:          room.ID,
		RoomName:        room.Name,
		CheckInDate:     checkIn.Format(models.DateLayout),
		CheckOutDate:    checkOut.Format(models.DateLayout),
		CheckInTime:     in.CheckInTime,
		Guests:          in.Guests,
		SpecialRequests: in.SpecialRequests,
		Quote:           p.Quote(room.NightlyRate, Nights(checkIn, checkOut)),
	}, nil
}

func (s *DefaultBookingService) loadBookableRoom(ctx context.Context, roomID string) (*models.Room, error) {
	room, err := s.Rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ValidationError("room %s does not exist", roomID)
		}
		return nil, PersistenceError(err, "failed to load room")
	}
	if !room.Active {
		return nil, ValidationError("room %s is not open for booking", room.Name)
	}
	return room, nil
}

func (s *DefaultBookingService) CreateDraft(ctx context.Context, userID string, in models.DraftInput) (*models.BookingDraft, error) {
	return s.saveDraft(ctx, userID, uuid.NewString(), in, time.Time{})
}

func (s *DefaultBookingService) UpdateDraft(ctx context.Context, userID, draftID string, in models.DraftInput) (*models.BookingDraft, error) {
	existing, err := s.GetDraft(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}
	return s.saveDraft(ctx, existing.UserID, draftID, in, existing.CreatedAt)
}

func (s *DefaultBookingService) saveDraft(ctx context.Context, userID, id string, in models.DraftInput, createdAt time.Time) (*models.BookingDraft, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, ValidationError("%s", describeValidation(err))
	}
	room, err := s.loadBookableRoom(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}
	draft, err := BuildDraft(room, in, s.pricer)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if createdAt.IsZero() {
		createdAt = now
	}
	draft.ID = id
	draft.UserID = userID
	draft.CreatedAt = createdAt
	draft.ExpiresAt = now.Add(DraftTTL)

	if err := s.Drafts.Save(ctx, draft); err != nil {
		return nil, PersistenceError(err, "failed to save draft")
	}
	return draft, nil
}

func (s *DefaultBookingService) GetDraft(ctx context.Context, userID, draftID string) (*models.BookingDraft, error) {
	draft, err := s.Drafts.Get(ctx, draftID)
	if err != nil {
		if errors.Is(err, ErrDraftNotFound) {
			return nil, NotFoundError("draft %s not found or expired", draftID)
		}
		return nil, PersistenceError(err, "failed to load draft")
	}
	if draft.UserID != "" && draft.UserID != userID {
		return nil, NotFoundError("draft %s not found or expired", draftID)
	}
	return draft, nil
}

func (s *DefaultBookingService) DeleteDraft(ctx context.Context, userID, draftID string) error {
	if _, err := s.GetDraft(ctx, userID, draftID); err != nil {
		return err
	}
	if err := s.Drafts.Delete(ctx, draftID); err != nil {
		return PersistenceError(err, "failed to delete draft")
	}
	return nil
}

// RedisDraftStore keeps drafts in Redis under draft:<id>; every save resets the TTL.
type RedisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDraftStore(client *redis.Client, ttl time.Duration) *RedisDraftStore {
	if ttl <= 0 {
		ttl = DraftTTL
	}
	return &RedisDraftStore{client: client, ttl: ttl}
}

func (r *RedisDraftStore) Save(ctx context.Context, draft *models.BookingDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := r.client.Set(ctx, draftKeyPrefix+draft.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache draft: %w", err)
	}
	return nil
}

func (r *RedisDraftStore) Get(ctx context.Context, id string) (*models.BookingDraft, error) {
	data, err := r.client.Get(ctx, draftKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}
	var draft models.BookingDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &draft, nil
}

func (r *RedisDraftStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, draftKeyPrefix+id).Err()
}

// MemoryDraftStore is a process-local DraftStore.
type MemoryDraftStore struct {
	mu     sync.Mutex
	drafts map[string]models.BookingDraft
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{drafts: make(map[string]models.BookingDraft)}
}

func (m *MemoryDraftStore) Save(_ context.Context, draft *models.BookingDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[draft.ID] = *draft
	return nil
}

func (m *MemoryDraftStore) Get(_ context.Context, id string) (*models.BookingDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[id]
	if !ok || (!d.ExpiresAt.IsZero() && time.Now().After(d.ExpiresAt)) {
		return nil, ErrDraftNotFound
	}
	return &d, nil
}

func (m *MemoryDraftStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, id)
	return nil
}
