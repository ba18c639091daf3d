package bookingRepo

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
	"go.uber.org/zap"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates the repository over the "bookings" collection.
func NewMongoBookingRepo(db *mongo.Database, logger *zap.Logger) BookingRepository {
	repo := &MongoBookingRepo{coll: db.Collection("bookings")}

	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("failed to create booking indexes", zap.Error(err))
	}
	return repo
}

// newContext derives a bounded context for a single query.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

func (r *MongoBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		if mapped := database.MapMongoError(err); errors.Is(mapped, database.ErrDuplicate) {
			return mapped
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) findOne(ctx context.Context, filter bson.M) (*models.Booking, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var b models.Booking
	if err := r.coll.FindOne(ctx, filter).Decode(&b); err != nil {
		if mapped := database.MapMongoError(err); errors.Is(mapped, database.ErrNotFound) {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &b, nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoBookingRepo) GetByOrderID(ctx context.Context, orderID string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"razorpay_order_id": orderID})
}

func (r *MongoBookingRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Booking, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"user_id": userID}, opts)
}

func (r *MongoBookingRepo) ListAll(ctx context.Context, limit, offset int) ([]models.Booking, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

func (r *MongoBookingRepo) ListPendingByUser(ctx context.Context, userID string, since time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"user_id":        userID,
		"payment_status": models.PaymentPending,
		"created_at":     bson.M{"$gte": since},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *MongoBookingRepo) ListPendingUsers(ctx context.Context, since time.Time) ([]string, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"payment_status":    models.PaymentPending,
		"created_at":        bson.M{"$gte": since},
		"razorpay_order_id": bson.M{"$exists": true, "$ne": ""},
	}
	values, err := r.coll.Distinct(ctx, "user_id", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending users: %w", err)
	}
	users := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			users = append(users, s)
		}
	}
	return users, nil
}

func (r *MongoBookingRepo) ListConfirmedForRoom(ctx context.Context, roomID string, from, to time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"room_id":        roomID,
		"booking_status": models.BookingConfirmed,
		"check_in_date":  bson.M{"$lte": to},
		"check_out_date": bson.M{"$gte": from},
	}
	opts := options.Find().SetSort(bson.D{{Key: "check_in_date", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *MongoBookingRepo) SetOrderID(ctx context.Context, bookingID, orderID string) (bool, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id": bookingID,
		"$or": bson.A{
			bson.M{"razorpay_order_id": bson.M{"$exists": false}},
			bson.M{"razorpay_order_id": ""},
		},
	}
	update := bson.M{"$set": bson.M{"razorpay_order_id": orderID, "updated_at": time.Now().UTC()}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to set order id on booking %s: %w", bookingID, err)
	}
	return res.MatchedCount == 1, nil
}

func (r *MongoBookingRepo) TransitionByOrderID(ctx context.Context, orderID string, t Transition) (*models.Booking, bool, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{
		"payment_status": t.PaymentStatus,
		"booking_status": t.BookingStatus,
		"updated_at":     time.Now().UTC(),
	}
	if t.PaymentID != "" {
		set["razorpay_payment_id"] = t.PaymentID
	}
	if t.Method != "" {
		set["payment_method"] = t.Method
	}
	if t.AmountPaid > 0 {
		set["amount_paid"] = t.AmountPaid
	}
	if t.PaidAt != nil {
		set["paid_at"] = *t.PaidAt
	}

	filter := bson.M{"razorpay_order_id": orderID, "payment_status": models.PaymentPending}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if err == nil {
		return &updated, true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, fmt.Errorf("failed to transition booking for order %s: %w", orderID, err)
	}

	// Nothing pending matched: either unknown order or already resolved.
	existing, err := r.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}
