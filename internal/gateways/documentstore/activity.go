package documentstore

import (
	"context"
	"fmt"
	"time"

	"github.com/ellavondegurechaff/healthquest/internal/domain/activity"
	"github.com/ellavondegurechaff/healthquest/internal/gateways/database/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type activityDocument struct {
	ID        int64     `bson:"_id"`
	UserID    string    `bson:"userId"`
	Type      string    `bson:"type"`
	Title     string    `bson:"title"`
	XPEarned  int       `bson:"xpEarned"`
	CreatedAt time.Time `bson:"timestamp"`
}

// ActivityRepository keeps activity history in the document store instead of
// Postgres, for deployments that run the remote store only.
type ActivityRepository struct {
	coll *mongo.Collection
}

var _ activity.Repository = &ActivityRepository{}

func NewActivityRepository(c *Client, collection string) *ActivityRepository {
	return &ActivityRepository{coll: c.Collection(collection)}
}

func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create activity indexes: %w", err)
	}
	return nil
}

func (r *ActivityRepository) Insert(ctx context.Context, a *models.Activity) error {
	_, err := r.coll.InsertOne(ctx, activityDocument{
		ID:        a.ID,
		UserID:    a.UserID,
		Type:      a.Type,
		Title:     a.Title,
		XPEarned:  a.XPEarned,
		CreatedAt: a.CreatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to insert activity %d: %w", a.ID, err)
	}
	return nil
}

func (r *ActivityRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*models.Activity, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{"userId": userID}, opts)
}

func (r *ActivityRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]*models.Activity, error) {
	filter := bson.M{
		"userId":    userID,
		"timestamp": bson.M{"$gte": since},
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}))
}

func (r *ActivityRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Activity, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer cur.Close(ctx)

	var docs []activityDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode activity: %w", err)
	}

	out := make([]*models.Activity, 0, len(docs))
	for _, d := range docs {
		out = append(out, &models.Activity{
			ID:        d.ID,
			UserID:    d.UserID,
			Type:      d.Type,
			Title:     d.Title,
			XPEarned:  d.XPEarned,
			CreatedAt: d.CreatedAt.UTC(),
		})
	}
	return out, nil
}

func (r *ActivityRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil
}
