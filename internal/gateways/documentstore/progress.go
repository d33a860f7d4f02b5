package documentstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/healthquest/internal/domain/progress"
	"github.com/ellavondegurechaff/healthquest/internal/domain/syncer"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// progressDocument is one user's hosted progress, keyed by user id.
type progressDocument struct {
	UserID           string    `bson:"_id"`
	TotalXP          int       `bson:"totalXP"`
	Level            int       `bson:"level"`
	ReelsWatched     int       `bson:"reelsWatched"`
	QuizzesCompleted int       `bson:"quizzesCompleted"`
	StoriesRead      int       `bson:"storiesRead"`
	ReelsPoints      int       `bson:"reelsPoints"`
	QuizPoints       int       `bson:"quizPoints"`
	StoriesPoints    int       `bson:"storiesPoints"`
	Badges           []string  `bson:"badges"`
	LastUpdated      time.Time `bson:"lastUpdated"`
}

type ProgressStore struct {
	coll *mongo.Collection
}

var _ syncer.RemoteStore = &ProgressStore{}

func NewProgressStore(c *Client, collection string) *ProgressStore {
	return &ProgressStore{coll: c.Collection(collection)}
}

func (s *ProgressStore) Pull(ctx context.Context, userID string) (*progress.UserProgress, error) {
	var doc progressDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pull progress for %s: %w", userID, err)
	}

	p := progress.UserProgress{
		UserID:           doc.UserID,
		TotalXP:          doc.TotalXP,
		Level:            doc.Level,
		ReelsWatched:     doc.ReelsWatched,
		QuizzesCompleted: doc.QuizzesCompleted,
		StoriesRead:      doc.StoriesRead,
		ReelsPoints:      doc.ReelsPoints,
		QuizPoints:       doc.QuizPoints,
		StoriesPoints:    doc.StoriesPoints,
		Badges:           doc.Badges,
		LastUpdated:      doc.LastUpdated.UTC(),
	}
	// documents written by older clients may carry stale derived fields
	p.Normalize()
	return &p, nil
}

func (s *ProgressStore) Push(ctx context.Context, p progress.UserProgress) error {
	doc := progressDocument{
		UserID:           p.UserID,
		TotalXP:          p.TotalXP,
		Level:            p.Level,
		ReelsWatched:     p.ReelsWatched,
		QuizzesCompleted: p.QuizzesCompleted,
		StoriesRead:      p.StoriesRead,
		ReelsPoints:      p.ReelsPoints,
		QuizPoints:       p.QuizPoints,
		StoriesPoints:    p.StoriesPoints,
		Badges:           p.Badges,
		LastUpdated:      p.LastUpdated,
	}
	if doc.Badges == nil {
		doc.Badges = []string{}
	}

	_, err := s.coll.ReplaceOne(ctx, pushFilter(doc.UserID, doc.LastUpdated), doc, options.Replace().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		// the filter missed an existing document, so the remote copy is newer
		slog.Debug("Remote progress is newer, push skipped",
			slog.String("type", "sync"),
			slog.String("user_id", p.UserID),
			slog.Time("last_updated", p.LastUpdated))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to push progress for %s: %w", p.UserID, err)
	}
	return nil
}

// pushFilter matches the user's document only when it is not newer than the
// snapshot being written. When it is newer the upsert tries to insert a second
// document with the same _id and fails with a duplicate key error.
func pushFilter(userID string, lastUpdated time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: userID},
		{Key: "lastUpdated", Value: bson.D{{Key: "$lte", Value: lastUpdated}}},
	}
}
