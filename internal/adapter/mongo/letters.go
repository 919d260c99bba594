package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

// letterDoc is one letter of an owner's rollup; the rollup is the set of an
// owner's letter documents.
type letterDoc struct {
	OwnerID     string `bson:"owner_id"`
	Letter      string `bson:"letter"`
	UnreadCount int    `bson:"unread_count"`
	LocalURL    string `bson:"local_url"`
}

// LetterRepo provides letter rollup persistence backed by MongoDB.
type LetterRepo struct {
	coll *mongo.Collection
	log  *slog.Logger
}

// NewLetterRepo creates a letter repository on db.
func NewLetterRepo(db *mongo.Database, logger *slog.Logger) *LetterRepo {
	return &LetterRepo{coll: db.Collection(LettersCollection), log: logger.With("repo", "mongo_letters")}
}

// Get returns the owner's letter document. Returns domain.ErrNotFound when
// the owner has no letters yet.
func (r *LetterRepo) Get(ctx context.Context, owner uuid.UUID) (*domain.Letters, error) {
	items, err := r.List(ctx, owner, domain.QueryOptions{Limit: domain.MaxQueryLimit})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("letters %s: %w", owner, domain.ErrNotFound)
	}

	doc := &domain.Letters{OwnerID: owner, Letters: make(map[string]domain.LetterItem, len(items))}
	for _, item := range items {
		doc.Letters[item.Letter] = item
	}
	return doc, nil
}

// List returns the owner's letters. The order is alphabetical unless
// SortByUnread is requested explicitly.
func (r *LetterRepo) List(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) ([]domain.LetterItem, error) {
	byUnread := opts.SortMode == domain.SortByUnread
	opts = opts.Normalized()

	sortBy := bson.D{{Key: "letter", Value: 1}}
	if byUnread {
		sortBy = bson.D{{Key: "unread_count", Value: -1}, {Key: "letter", Value: 1}}
	}
	findOpts := options.Find().
		SetSort(sortBy).
		SetSkip(int64(opts.Offset)).
		SetLimit(int64(opts.Limit))

	cur, err := r.coll.Find(ctx, letterFilter(owner, opts), findOpts)
	if err != nil {
		return nil, mapError(err, "letters", owner.String())
	}
	defer cur.Close(ctx)

	items := make([]domain.LetterItem, 0)
	for cur.Next(ctx) {
		var doc letterDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode letter: %w", err)
		}
		items = append(items, domain.LetterItem{
			Letter:      doc.Letter,
			UnreadCount: doc.UnreadCount,
			LocalURL:    doc.LocalURL,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, mapError(err, "letters", owner.String())
	}
	return items, nil
}

// Count returns the number of letters matching the filters of opts.
func (r *LetterRepo) Count(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) (int, error) {
	n, err := r.coll.CountDocuments(ctx, letterFilter(owner, opts))
	if err != nil {
		return 0, mapError(err, "letters", owner.String())
	}
	return int(n), nil
}

// ApplyDeltas adds signed deltas to the letters' unread counts. Letters that
// do not exist yet are not created; a later resync adds them.
func (r *LetterRepo) ApplyDeltas(ctx context.Context, owner uuid.UUID, deltas map[string]int) (bool, error) {
	models := make([]mongo.WriteModel, 0, len(deltas))
	for _, letter := range sortedKeys(deltas) {
		models = append(models, boundedInc(
			bson.D{{Key: "owner_id", Value: owner.String()}, {Key: "letter", Value: letter}},
			deltas[letter], false,
		))
	}

	matched, err := matchedCount(ctx, r.coll, r.log, models)
	if err != nil {
		return false, fmt.Errorf("letters: apply deltas: %w", err)
	}
	if skipped := len(models) - int(matched); skipped > 0 {
		r.log.WarnContext(ctx, "unread deltas skipped",
			slog.String("owner_id", owner.String()),
			slog.Int("skipped", skipped),
		)
	}
	return matched > 0, nil
}

// Replace stores letters as the owner's complete letter document. Letters
// absent from the map are removed.
func (r *LetterRepo) Replace(ctx context.Context, owner uuid.UUID, letters map[string]domain.LetterItem) error {
	keys := sortedKeys(letters)
	if keys == nil {
		keys = []string{}
	}

	_, err := r.coll.DeleteMany(ctx, bson.D{
		{Key: "owner_id", Value: owner.String()},
		{Key: "letter", Value: bson.M{"$nin": keys}},
	})
	if err != nil {
		return mapError(err, "letters", owner.String())
	}
	if len(keys) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(keys))
	for _, k := range keys {
		item := letters[k]
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "owner_id", Value: owner.String()}, {Key: "letter", Value: k}}).
			SetReplacement(letterDoc{
				OwnerID:     owner.String(),
				Letter:      k,
				UnreadCount: item.UnreadCount,
				LocalURL:    item.LocalURL,
			}).
			SetUpsert(true))
	}

	if _, err := r.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return mapError(err, "letters", owner.String())
	}
	return nil
}

// Prepare creates the key index. Failures are logged.
func (r *LetterRepo) Prepare(ctx context.Context) {
	ensureIndexes(ctx, r.coll, r.log, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "letter", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
}

func letterFilter(owner uuid.UUID, opts domain.QueryOptions) bson.D {
	filter := bson.D{{Key: "owner_id", Value: owner.String()}}
	if len(opts.Keys) > 0 {
		filter = append(filter, bson.E{Key: "letter", Value: bson.M{"$in": opts.Keys}})
	}
	if opts.OnlyUnread {
		filter = append(filter, bson.E{Key: "unread_count", Value: bson.M{"$gt": 0}})
	}
	return filter
}
