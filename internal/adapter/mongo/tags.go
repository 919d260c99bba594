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

type tagDoc struct {
	OwnerID     string  `bson:"owner_id"`
	Tag         string  `bson:"tag"`
	PostsCount  int     `bson:"posts_count"`
	UnreadCount int     `bson:"unread_count"`
	Temperature float64 `bson:"temperature"`
	Processing  string  `bson:"processing"`
}

func (d tagDoc) toDomain() (domain.Tag, error) {
	owner, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("tag %q: owner_id: %w", d.Tag, err)
	}
	return domain.Tag{
		OwnerID:     owner,
		Tag:         d.Tag,
		PostsCount:  d.PostsCount,
		UnreadCount: d.UnreadCount,
		Temperature: d.Temperature,
		Processing:  domain.ProcessingState(d.Processing),
	}, nil
}

// TagRepo provides tag aggregate persistence backed by MongoDB.
type TagRepo struct {
	coll *mongo.Collection
	log  *slog.Logger
}

// NewTagRepo creates a tag repository on db.
func NewTagRepo(db *mongo.Database, logger *slog.Logger) *TagRepo {
	return &TagRepo{coll: db.Collection(TagsCollection), log: logger.With("repo", "mongo_tags")}
}

// Get returns one tag. Returns domain.ErrNotFound if the owner has no such tag.
func (r *TagRepo) Get(ctx context.Context, owner uuid.UUID, tag string) (*domain.Tag, error) {
	var doc tagDoc
	err := r.coll.FindOne(ctx, bson.D{{Key: "owner_id", Value: owner.String()}, {Key: "tag", Value: tag}}).Decode(&doc)
	if err != nil {
		return nil, mapError(err, "tag", tag)
	}
	t, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns the owner's tags matching opts, sorted and paged.
func (r *TagRepo) List(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) ([]domain.Tag, error) {
	opts = opts.Normalized()
	opts.Tags = nil
	return r.find(ctx, owner, "list tags", aggregateFilter(owner.String(), opts), findAggregates(opts))
}

// ListAll returns every tag of the owner ordered by tag.
func (r *TagRepo) ListAll(ctx context.Context, owner uuid.UUID) ([]domain.Tag, error) {
	return r.find(ctx, owner, "list all tags",
		bson.D{{Key: "owner_id", Value: owner.String()}},
		options.Find().SetSort(bson.D{{Key: "tag", Value: 1}}),
	)
}

// Count returns the number of the owner's tags matching the filters of opts.
func (r *TagRepo) Count(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) (int, error) {
	opts.Tags = nil
	n, err := r.coll.CountDocuments(ctx, aggregateFilter(owner.String(), opts))
	if err != nil {
		return 0, mapError(err, "tags", owner.String())
	}
	return int(n), nil
}

// Owners returns every owner that has at least one tag.
func (r *TagRepo) Owners(ctx context.Context) ([]uuid.UUID, error) {
	return distinctOwners(ctx, r.coll)
}

// Upsert counts one more post for every tag, creating missing tags.
func (r *TagRepo) Upsert(ctx context.Context, owner uuid.UUID, tags []string, unread bool) error {
	if len(tags) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(tags))
	for _, tag := range tags {
		models = append(models, upsertModel(
			bson.D{{Key: "owner_id", Value: owner.String()}, {Key: "tag", Value: tag}},
			unread,
			bson.M{"processing": string(domain.ProcessingIdle)},
		))
	}

	if _, err := r.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("upsert tags: %w", err)
	}
	return nil
}

// ApplyDeltas adds signed deltas to unread_count. Keys that are missing or
// whose count would leave [0, posts_count] are skipped.
func (r *TagRepo) ApplyDeltas(ctx context.Context, owner uuid.UUID, deltas map[string]int) (bool, error) {
	models := make([]mongo.WriteModel, 0, len(deltas))
	for _, tag := range sortedKeys(deltas) {
		models = append(models, boundedInc(
			bson.D{{Key: "owner_id", Value: owner.String()}, {Key: "tag", Value: tag}},
			deltas[tag], true,
		))
	}

	matched, err := matchedCount(ctx, r.coll, r.log, models)
	if err != nil {
		return false, fmt.Errorf("tags: apply deltas: %w", err)
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
func (r *TagRepo) DecayTemperature(ctx context.Context, factor float64) (int64, error) {
	return decay(ctx, r.coll, factor)
}

// Prepare creates the key and listing indexes. Failures are logged.
func (r *TagRepo) Prepare(ctx context.Context) {
	ensureIndexes(ctx, r.coll, r.log, aggregateIndexes())
}

func (r *TagRepo) find(ctx context.Context, owner uuid.UUID, op string, filter bson.D, opts *options.FindOptionsBuilder) ([]domain.Tag, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapError(err, op, owner.String())
	}
	defer cur.Close(ctx)

	tags := make([]domain.Tag, 0)
	for cur.Next(ctx) {
		var doc tagDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		t, err := doc.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		tags = append(tags, t)
	}
	if err := cur.Err(); err != nil {
		return nil, mapError(err, op, owner.String())
	}
	return tags, nil
}
