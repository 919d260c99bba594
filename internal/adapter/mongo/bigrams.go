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

type biGramDoc struct {
	OwnerID     string   `bson:"owner_id"`
	Tag         string   `bson:"tag"`
	Tags        []string `bson:"tags"`
	PostsCount  int      `bson:"posts_count"`
	UnreadCount int      `bson:"unread_count"`
	Temperature float64  `bson:"temperature"`
}

func (d biGramDoc) toDomain() (domain.BiGram, error) {
	owner, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return domain.BiGram{}, fmt.Errorf("bi-gram %q: owner_id: %w", d.Tag, err)
	}
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return domain.BiGram{
		OwnerID:     owner,
		Tag:         d.Tag,
		Tags:        tags,
		PostsCount:  d.PostsCount,
		UnreadCount: d.UnreadCount,
		Temperature: d.Temperature,
	}, nil
}

// BiGramRepo provides bi-gram aggregate persistence backed by MongoDB.
type BiGramRepo struct {
	coll *mongo.Collection
	log  *slog.Logger
}

// NewBiGramRepo creates a bi-gram repository on db.
func NewBiGramRepo(db *mongo.Database, logger *slog.Logger) *BiGramRepo {
	return &BiGramRepo{coll: db.Collection(BiGramsCollection), log: logger.With("repo", "mongo_bi_grams")}
}

// Get returns one bi-gram by key. Returns domain.ErrNotFound if absent.
func (r *BiGramRepo) Get(ctx context.Context, owner uuid.UUID, key string) (*domain.BiGram, error) {
	var doc biGramDoc
	err := r.coll.FindOne(ctx, bson.D{{Key: "owner_id", Value: owner.String()}, {Key: "tag", Value: key}}).Decode(&doc)
	if err != nil {
		return nil, mapError(err, "bi-gram", key)
	}
	b, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns the owner's bi-grams matching opts, sorted and paged.
// opts.Tags keeps bi-grams containing all listed constituents.
func (r *BiGramRepo) List(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) ([]domain.BiGram, error) {
	opts = opts.Normalized()
	return r.find(ctx, owner, "list bi-grams", aggregateFilter(owner.String(), opts), findAggregates(opts))
}

// ListAll returns every bi-gram of the owner ordered by key.
func (r *BiGramRepo) ListAll(ctx context.Context, owner uuid.UUID) ([]domain.BiGram, error) {
	return r.find(ctx, owner, "list all bi-grams",
		bson.D{{Key: "owner_id", Value: owner.String()}},
		options.Find().SetSort(bson.D{{Key: "tag", Value: 1}}),
	)
}

// Count returns the number of the owner's bi-grams matching the filters of opts.
func (r *BiGramRepo) Count(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) (int, error) {
	n, err := r.coll.CountDocuments(ctx, aggregateFilter(owner.String(), opts))
	if err != nil {
		return 0, mapError(err, "bi-grams", owner.String())
	}
	return int(n), nil
}

// Upsert counts one more post for every bi-gram key, creating missing
// bi-grams with their constituent tags.
func (r *BiGramRepo) Upsert(ctx context.Context, owner uuid.UUID, keys []string, unread bool) error {
	if len(keys) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(keys))
	for _, key := range keys {
		models = append(models, upsertModel(
			bson.D{{Key: "owner_id", Value: owner.String()}, {Key: "tag", Value: key}},
			unread,
			bson.M{"tags": domain.BiGramTags(key)},
		))
	}

	if _, err := r.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("upsert bi-grams: %w", err)
	}
	return nil
}

// ApplyDeltas adds signed deltas to unread_count. Keys that are missing or
// whose count would leave [0, posts_count] are skipped.
func (r *BiGramRepo) ApplyDeltas(ctx context.Context, owner uuid.UUID, deltas map[string]int) (bool, error) {
	models := make([]mongo.WriteModel, 0, len(deltas))
	for _, key := range sortedKeys(deltas) {
		models = append(models, boundedInc(
			bson.D{{Key: "owner_id", Value: owner.String()}, {Key: "tag", Value: key}},
			deltas[key], true,
		))
	}

	matched, err := matchedCount(ctx, r.coll, r.log, models)
	if err != nil {
		return false, fmt.Errorf("bi-grams: apply deltas: %w", err)
	}
	if skipped := len(models) - int(matched); skipped > 0 {
		r.log.WarnContext(ctx, "unread deltas skipped",
			slog.String("owner_id", owner.String()),
			slog.Int("skipped", skipped),
		)
	}
	return matched > 0, nil
}

// DecayTemperature multiplies every positive temperature by factor.
func (r *BiGramRepo) DecayTemperature(ctx context.Context, factor float64) (int64, error) {
	return decay(ctx, r.coll, factor)
}

// Prepare creates the key, listing and constituent indexes.
func (r *BiGramRepo) Prepare(ctx context.Context) {
	indexes := append(aggregateIndexes(), mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "tags", Value: 1}},
	})
	ensureIndexes(ctx, r.coll, r.log, indexes)
}

func (r *BiGramRepo) find(ctx context.Context, owner uuid.UUID, op string, filter bson.D, opts *options.FindOptionsBuilder) ([]domain.BiGram, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapError(err, op, owner.String())
	}
	defer cur.Close(ctx)

	result := make([]domain.BiGram, 0)
	for cur.Next(ctx) {
		var doc biGramDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		b, err := doc.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, b)
	}
	if err := cur.Err(); err != nil {
		return nil, mapError(err, op, owner.String())
	}
	return result, nil
}
