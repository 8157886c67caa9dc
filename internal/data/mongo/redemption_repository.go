package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/loyalty-points-ledger/internal/domain/redemption"
)

const (
	// RedemptionCollectionName is the name of the redemption journal collection in MongoDB
	RedemptionCollectionName = "redemption_events"
)

// RedemptionRepository implements the redemption.Repository interface for MongoDB
type RedemptionRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewRedemptionRepository creates a new MongoDB redemption journal repository
func NewRedemptionRepository(logger *slog.Logger, db *mongo.Database) redemption.Repository {
	return &RedemptionRepository{
		db:     db,
		logger: logger,
	}
}

// Record journals a redemption event. The upsert is keyed on the event ID so
// redelivered Kafka messages do not produce duplicate journal entries.
func (r *RedemptionRepository) Record(ctx context.Context, event *redemption.Event) error {
	collection := r.db.Collection(RedemptionCollectionName)

	now := time.Now().UTC()
	filter := bson.M{"event_id": event.ID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"event_id":          event.ID,
			"account_id":        event.AccountID,
			"merchant_id":       event.MerchantID,
			"rewards_earned":    event.RewardsEarned,
			"remaining_balance": event.RemainingBalance,
			"threshold":         event.Threshold,
			"correlation_id":    event.CorrelationID,
			"status":            redemption.EventStatusJournaled,
			"occurred_at":       event.OccurredAt,
			"journaled_at":      now,
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		r.logger.Error("Failed to journal redemption event",
			"event_id", event.ID.String(),
			"error", err)
		return fmt.Errorf("failed to journal redemption event: %w", err)
	}

	if result.UpsertedCount == 0 {
		r.logger.Info("Redemption event already journaled, skipping",
			"event_id", event.ID.String())
		return nil
	}

	event.Status = redemption.EventStatusJournaled
	event.JournaledAt = &now
	return nil
}

// GetByID retrieves a journaled event by its event ID.
// Returns ErrEventNotFound if no event exists with the given ID.
func (r *RedemptionRepository) GetByID(ctx context.Context, eventID uuid.UUID) (*redemption.Event, error) {
	collection := r.db.Collection(RedemptionCollectionName)

	filter := bson.M{"event_id": eventID}
	var event redemption.Event
	err := collection.FindOne(ctx, filter).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, redemption.ErrEventNotFound{EventID: eventID}
		}
		r.logger.Error("Failed to get redemption event",
			"event_id", eventID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get redemption event: %w", err)
	}

	return &event, nil
}

// GetByAccountID retrieves paginated redemption events for an account.
// Results are sorted by occurrence time in descending order (newest first).
func (r *RedemptionRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*redemption.Event, error) {
	collection := r.db.Collection(RedemptionCollectionName)

	filter := bson.M{"account_id": accountID}
	opts := options.Find().
		SetSort(bson.M{"occurred_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get redemption events",
			"account_id", accountID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get redemption events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*redemption.Event
	if err := cursor.All(ctx, &events); err != nil {
		r.logger.Error("Failed to decode redemption events",
			"account_id", accountID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode redemption events: %w", err)
	}

	return events, nil
}

// CountByAccountID counts the total number of journaled events for an account
func (r *RedemptionRepository) CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	collection := r.db.Collection(RedemptionCollectionName)

	filter := bson.M{"account_id": accountID}
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count redemption events",
			"account_id", accountID.String(),
			"error", err)
		return 0, fmt.Errorf("failed to count redemption events: %w", err)
	}

	return count, nil
}
