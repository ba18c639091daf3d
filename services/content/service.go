package content

import (
	"context"
	"errors"
	"strings"
	"time"

	"homestay/database"
	roomRepo "homestay/database/repository/room"
	recordsRepo "homestay/database/repository/records"
	"homestay/models"
	"homestay/services/booking"
	"homestay/services/storage"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContentService manages the admin-maintained records, rooms and their images.
type ContentService interface {
	Save(ctx context.Context, kind models.ContentKind, rec *models.ContentRecord, img *models.Image) (*models.ContentRecord, error)
	Get(ctx context.Context, kind models.ContentKind, id string) (*models.ContentRecord, error)
	List(ctx context.Context, kind models.ContentKind, publishedOnly bool) ([]models.ContentRecord, error)
	Delete(ctx context.Context, kind models.ContentKind, id string) error
	CreateEnquiry(ctx context.Context, in models.EnquiryInput) (*models.ContentRecord, error)

	SaveRoom(ctx context.Context, room *models.Room, img *models.Image) (*models.Room, error)
	GetRoom(ctx context.Context, id string) (*models.Room, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

type DefaultContentService struct {
	Records recordsRepo.ContentRecordRepository
	Rooms   roomRepo.RoomRepository
	Images  storage.ImageStore

	logger   *zap.Logger
	validate *validator.Validate
	now      func() time.Time
}

func NewContentService(records recordsRepo.ContentRecordRepository, rooms roomRepo.RoomRepository, images storage.ImageStore, logger *zap.Logger) *DefaultContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultContentService{
		Records:  records,
		Rooms:    rooms,
		Images:   images,
		logger:   logger,
		validate: validator.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

const roomFolder = "rooms"

// upload stores img when one was sent. A nil image stores nothing.
func (s *DefaultContentService) upload(ctx context.Context, img *models.Image, folder string) (*models.StoredImage, error) {
	if img == nil {
		return nil, nil
	}
	if s.Images == nil {
		return nil, booking.UpstreamError(nil, "image storage is not configured")
	}
	stored, err := s.Images.Upload(ctx, *img, folder)
	if err != nil {
		return nil, booking.UpstreamError(err, "failed to upload image %s", img.Filename)
	}
	return stored, nil
}

// discard deletes an image and only logs failures.
func (s *DefaultContentService) discard(ctx context.Context, publicID, reason string) {
	if publicID == "" || s.Images == nil {
		return
	}
	if err := s.Images.Delete(context.WithoutCancel(ctx), publicID); err != nil {
		s.logger.Warn("failed to delete image",
			zap.String("public_id", publicID),
			zap.String("reason", reason),
			zap.Error(err))
	}
}

// Save upserts a record by id. A new image is uploaded before the write; it is removed again
// when the write fails, and the image it replaces is removed when the write succeeds.
func (s *DefaultContentService) Save(ctx context.Context, kind models.ContentKind, rec *models.ContentRecord, img *models.Image) (*models.ContentRecord, error) {
	if !kind.Valid() {
		return nil, booking.ValidationError("unknown content kind %q", kind)
	}
	if rec == nil {
		return nil, booking.ValidationError("record is required")
	}

	var existing *models.ContentRecord
	if rec.ID != "" {
		found, err := s.Records.GetByID(ctx, kind, rec.ID)
		switch {
		case err == nil:
			existing = found
		case errors.Is(err, database.ErrNotFound):
		default:
			return nil, booking.PersistenceError(err, "failed to load %s %s", kind, rec.ID)
		}
	}

	fresh, err := s.upload(ctx, img, string(kind))
	if err != nil {
		return nil, err
	}

	out := *rec
	out.Kind = kind
	now := s.now()
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	out.CreatedAt = now
	if existing != nil {
		out.CreatedAt = existing.CreatedAt
		if fresh == nil && out.ImagePublicID == "" {
			out.ImageURL, out.ImagePublicID = existing.ImageURL, existing.ImagePublicID
		}
	}
	out.UpdatedAt = now
	if fresh != nil {
		out.ImageURL, out.ImagePublicID = fresh.URL, fresh.PublicID
	}

	if err := s.Records.Save(ctx, &out); err != nil {
		if fresh != nil {
			s.discard(ctx, fresh.PublicID, "save failed")
		}
		return nil, booking.PersistenceError(err, "failed to save %s %s", kind, out.ID)
	}

	if existing != nil && existing.ImagePublicID != "" && existing.ImagePublicID != out.ImagePublicID {
		s.discard(ctx, existing.ImagePublicID, "replaced")
	}
	s.logger.Info("content saved", zap.String("kind", string(kind)), zap.String("id", out.ID))
	return &out, nil
}

func (s *DefaultContentService) Get(ctx context.Context, kind models.ContentKind, id string) (*models.ContentRecord, error) {
	if !kind.Valid() {
		return nil, booking.ValidationError("unknown content kind %q", kind)
	}
	rec, err := s.Records.GetByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, booking.NotFoundError("%s %s not found", kind, id)
		}
		return nil, booking.PersistenceError(err, "failed to load %s %s", kind, id)
	}
	return rec, nil
}

func (s *DefaultContentService) List(ctx context.Context, kind models.ContentKind, publishedOnly bool) ([]models.ContentRecord, error) {
	if !kind.Valid() {
		return nil, booking.ValidationError("unknown content kind %q", kind)
	}
	recs, err := s.Records.List(ctx, kind, publishedOnly)
	if err != nil {
		return nil, booking.PersistenceError(err, "failed to list %s", kind)
	}
	return recs, nil
}

// Delete removes the record, then its image.
func (s *DefaultContentService) Delete(ctx context.Context, kind models.ContentKind, id string) error {
	rec, err := s.Get(ctx, kind, id)
	if err != nil {
		return err
	}
	if err := s.Records.Delete(ctx, kind, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return booking.NotFoundError("%s %s not found", kind, id)
		}
		return booking.PersistenceError(err, "failed to delete %s %s", kind, id)
	}
	s.discard(ctx, rec.ImagePublicID, "record deleted")
	s.logger.Info("content deleted", zap.String("kind", string(kind)), zap.String("id", id))
	return nil
}

// CreateEnquiry stores a contact form submission. Enquiries are never published.
func (s *DefaultContentService) CreateEnquiry(ctx context.Context, in models.EnquiryInput) (*models.ContentRecord, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, booking.ValidationError("invalid enquiry: %s", describeValidation(err))
	}
	title := strings.TrimSpace(in.Subject)
	if title == "" {
		title = "Enquiry from " + strings.TrimSpace(in.Name)
	}
	rec := &models.ContentRecord{
		Title: title,
		Body:  strings.TrimSpace(in.Message),
		Fields: map[string]interface{}{
			"name":  strings.TrimSpace(in.Name),
			"email": strings.TrimSpace(in.Email),
			"phone": strings.TrimSpace(in.Phone),
		},
	}
	return s.Save(ctx, models.KindEnquiries, rec, nil)
}

// SaveRoom upserts a room with the same image handling as Save.
func (s *DefaultContentService) SaveRoom(ctx context.Context, room *models.Room, img *models.Image) (*models.Room, error) {
	if room == nil {
		return nil, booking.ValidationError("room is required")
	}
	if err := s.validate.Struct(room); err != nil {
		return nil, booking.ValidationError("invalid room: %s", describeValidation(err))
	}

	var existing *models.Room
	if room.ID != "" {
		found, err := s.Rooms.GetByID(ctx, room.ID)
		switch {
		case err == nil:
			existing = found
		case errors.Is(err, database.ErrNotFound):
		default:
			return nil, booking.PersistenceError(err, "failed to load room %s", room.ID)
		}
	}

	fresh, err := s.upload(ctx, img, roomFolder)
	if err != nil {
		return nil, err
	}

	out := *room
	now := s.now()
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	out.CreatedAt = now
	if existing != nil {
		out.CreatedAt = existing.CreatedAt
		if fresh == nil && out.ImagePublicID == "" {
			out.ImageURL, out.ImagePublicID = existing.ImageURL, existing.ImagePublicID
		}
	}
	out.UpdatedAt = now
	if fresh != nil {
		out.ImageURL, out.ImagePublicID = fresh.URL, fresh.PublicID
	}

	if err := s.Rooms.Save(ctx, &out); err != nil {
		if fresh != nil {
			s.discard(ctx, fresh.PublicID, "save failed")
		}
		return nil, booking.PersistenceError(err, "failed to save room %s", out.ID)
	}
	if existing != nil && existing.ImagePublicID != "" && existing.ImagePublicID != out.ImagePublicID {
		s.discard(ctx, existing.ImagePublicID, "replaced")
	}
	s.logger.Info("room saved", zap.String("room_id", out.ID))
	return &out, nil
}

func (s *DefaultContentService) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.Rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, booking.NotFoundError("room %s not found", id)
		}
		return nil, booking.PersistenceError(err, "failed to load room %s", id)
	}
	return room, nil
}

func (s *DefaultContentService) ListRooms(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.Rooms.List(ctx, false)
	if err != nil {
		return nil, booking.PersistenceError(err, "failed to list rooms")
	}
	return rooms, nil
}

// DeleteRoom removes the room and its image. Bookings keep their copy of the room name.
func (s *DefaultContentService) DeleteRoom(ctx context.Context, id string) error {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Rooms.Delete(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return booking.NotFoundError("room %s not found", id)
		}
		return booking.PersistenceError(err, "failed to delete room %s", id)
	}
	s.discard(ctx, room.ImagePublicID, "room deleted")
	s.logger.Info("room deleted", zap.String("room_id", id))
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, strings.ToLower(fe.Field())+" "+fe.Tag())
	}
	return strings.Join(parts, ", ")
}
