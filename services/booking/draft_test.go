package booking

import (
	"context"
	"testing"

	"homestay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftInput() models.DraftInput {
	return models.DraftInput{RoomID: garden.ID, CheckInDate: "2025-03-01", CheckOutDate: "2025-03-04", Guests: 1}
}

func TestBuildDraftIsPure(t *testing.T) {
	d, err := BuildDraft(&garden, draftInput(), Pricer{TaxRate: 0.05, Currency: "INR"})
	require.NoError(t, err)
	assert.Empty(t, d.ID)
	assert.Equal(t, 3, d.Quote.Nights)
	assert.Equal(t, 3150.0, d.Quote.Total)

	in := draftInput()
	in.Guests = 5
	_, err = BuildDraft(&garden, in, Pricer{})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestDraftLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	d, err := h.svc.CreateDraft(ctx, "", draftInput())
	require.NoError(t, err)
	assert.False(t, d.ExpiresAt.IsZero())

	got, err := h.svc.GetDraft(ctx, "anyone", d.ID)
	require.NoError(t, err, "anonymous drafts are readable by id")
	assert.Equal(t, d.ID, got.ID)

	in := draftInput()
	in.Guests = 2
	updated, err := h.svc.UpdateDraft(ctx, "", d.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Guests)
	assert.Equal(t, d.CreatedAt, updated.CreatedAt)

	require.NoError(t, h.svc.DeleteDraft(ctx, "", d.ID))
	_, err = h.svc.GetDraft(ctx, "", d.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestDraftOwnedByUser(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	d, err := h.svc.CreateDraft(ctx, guest.UserID, draftInput())
	require.NoError(t, err)

	_, err = h.svc.GetDraft(ctx, "someone-else", d.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, KindNotFound, KindOf(h.svc.DeleteDraft(ctx, "someone-else", d.ID)))
}

func TestDraftRejectsInvalidInput(t *testing.T) {
	h := newHarness(t)
	in := draftInput()
	in.CheckOutDate = "2025-02-01"
	_, err := h.svc.CreateDraft(context.Background(), "", in)
	assert.Equal(t, KindValidation, KindOf(err))
}
