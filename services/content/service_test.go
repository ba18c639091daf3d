package content

import (
	"context"
	"errors"
	"testing"

	roomRepo "homestay/database/repository/room"
	recordsRepo "homestay/database/repository/records"
	"homestay/models"
	"homestay/services/booking"
	"homestay/services/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc     *DefaultContentService
	records *recordsRepo.MemoryRecordRepo
	rooms   *roomRepo.MemoryRoomRepo
	images  *storage.MemoryImageStore
}

func newFixture() fixture {
	f := fixture{
		records: recordsRepo.NewMemoryRecordRepo(),
		rooms:   roomRepo.NewMemoryRoomRepo(),
		images:  storage.NewMemoryImageStore(),
	}
	f.svc = NewContentService(f.records, f.rooms, f.images, nil)
	return f
}

var photo = &models.Image{Filename: "view.jpg", Path: "/tmp/view.jpg"}

func TestSaveUploadsAndReplacesImage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.Save(ctx, models.KindGallery, &models.ContentRecord{Title: "Valley"}, photo)
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	require.NotEmpty(t, first.ImagePublicID)
	assert.True(t, f.images.Has(first.ImagePublicID))

	second, err := f.svc.Save(ctx, models.KindGallery, &models.ContentRecord{ID: first.ID, Title: "Valley at dusk"}, photo)
	require.NoError(t, err)
	assert.NotEqual(t, first.ImagePublicID, second.ImagePublicID)
	assert.False(t, f.images.Has(first.ImagePublicID), "replaced image is deleted")
	assert.True(t, f.images.Has(second.ImagePublicID))
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, 1, f.images.Len())
}

func TestSaveWithoutImageKeepsExisting(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.Save(ctx, models.KindAmenities, &models.ContentRecord{Title: "Pool"}, photo)
	require.NoError(t, err)

	second, err := f.svc.Save(ctx, models.KindAmenities, &models.ContentRecord{ID: first.ID, Title: "Heated pool"}, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ImagePublicID, second.ImagePublicID)
	assert.True(t, f.images.Has(first.ImagePublicID))
}

func TestSaveFailureRemovesFreshUpload(t *testing.T) {
	f := newFixture()
	f.records.SaveErr = errors.New("mongo down")

	_, err := f.svc.Save(context.Background(), models.KindReviews, &models.ContentRecord{Title: "Lovely"}, photo)
	require.Error(t, err)
	assert.True(t, booking.IsKind(err, booking.KindPersistence))
	assert.Equal(t, 0, f.images.Len())
	assert.Len(t, f.images.Deleted(), 1)
}

func TestSaveUploadFailureWritesNothing(t *testing.T) {
	f := newFixture()
	f.images.UploadErr = errors.New("cloud down")

	_, err := f.svc.Save(context.Background(), models.KindGallery, &models.ContentRecord{Title: "x"}, photo)
	require.Error(t, err)
	assert.True(t, booking.IsKind(err, booking.KindUpstream))

	recs, err := f.svc.List(context.Background(), models.KindGallery, false)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestDeleteRemovesImageBestEffort(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	rec, err := f.svc.Save(ctx, models.KindGallery, &models.ContentRecord{Title: "Garden"}, photo)
	require.NoError(t, err)

	f.images.DeleteErr = errors.New("cloud down")
	require.NoError(t, f.svc.Delete(ctx, models.KindGallery, rec.ID))

	_, err = f.svc.Get(ctx, models.KindGallery, rec.ID)
	assert.True(t, booking.IsKind(err, booking.KindNotFound))
}

func TestUnknownKindRejected(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Save(context.Background(), models.ContentKind("faq"), &models.ContentRecord{}, nil)
	assert.True(t, booking.IsKind(err, booking.KindValidation))
	_, err = f.svc.List(context.Background(), models.ContentKind("faq"), true)
	assert.True(t, booking.IsKind(err, booking.KindValidation))
}

func TestListPublishedOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.Save(ctx, models.KindSections, &models.ContentRecord{Title: "About", Published: true}, nil)
	require.NoError(t, err)
	_, err = f.svc.Save(ctx, models.KindSections, &models.ContentRecord{Title: "Draft"}, nil)
	require.NoError(t, err)

	recs, err := f.svc.List(ctx, models.KindSections, true)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "About", recs[0].Title)
}

func TestCreateEnquiry(t *testing.T) {
	f := newFixture()
	rec, err := f.svc.CreateEnquiry(context.Background(), models.EnquiryInput{
		Name: "Ravi", Email: "ravi@example.com", Message: "Is parking available?",
	})
	require.NoError(t, err)
	assert.Equal(t, models.KindEnquiries, rec.Kind)
	assert.Equal(t, "Enquiry from Ravi", rec.Title)
	assert.False(t, rec.Published)

	_, err = f.svc.CreateEnquiry(context.Background(), models.EnquiryInput{Name: "Ravi", Email: "nope"})
	assert.True(t, booking.IsKind(err, booking.KindValidation))
}

func TestRoomLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.SaveRoom(ctx, &models.Room{Name: "No rate"}, nil)
	assert.True(t, booking.IsKind(err, booking.KindValidation))

	room, err := f.svc.SaveRoom(ctx, &models.Room{Name: "Garden Suite", NightlyRate: 1000, MaxGuests: 2, Active: true}, photo)
	require.NoError(t, err)
	assert.True(t, f.images.Has(room.ImagePublicID))

	rooms, err := f.svc.ListRooms(ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)

	require.NoError(t, f.svc.DeleteRoom(ctx, room.ID))
	assert.False(t, f.images.Has(room.ImagePublicID))
	assert.True(t, booking.IsKind(f.svc.DeleteRoom(ctx, room.ID), booking.KindNotFound))
}
