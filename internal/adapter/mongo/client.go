// Package mongo implements the aggregate and post stores on MongoDB.
// Owner and post IDs are stored as their string form.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/heartmarshall/feedtags-backend/internal/config"
	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

// Collection names.
const (
	TagsCollection    = "tags"
	BiGramsCollection = "bi_grams"
	LettersCollection = "letters"
	PostsCollection   = "posts"
)

// codeInvalidRegex is the server error code for a malformed $regex.
const codeInvalidRegex = 51091

// Connect opens a client for cfg.URI and pings the primary. A positive
// opTimeout bounds every operation that runs without a context deadline.
func Connect(ctx context.Context, cfg config.MongoConfig, opTimeout time.Duration) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(cfg.URI).SetConnectTimeout(cfg.ConnectTimeout)
	if opTimeout > 0 {
		opts.SetTimeout(opTimeout)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, nil
}

// Ping checks that the client can reach the server.
func Ping(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, nil)
}

// TxRunner runs fn directly. MongoDB multi-document transactions need a
// replica set, and the aggregate stores never rely on cross-document
// atomicity, so calls are passed through.
type TxRunner struct{}

// RunInTx calls fn with ctx.
func (TxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// mapError converts driver errors to domain errors.
func mapError(err error, entity, key string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, key, err)
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s %s: %w", entity, key, domain.ErrNotFound)
	}

	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s %s: %w", entity, key, domain.ErrAlreadyExists)
	}

	var se mongo.ServerError
	if errors.As(err, &se) && se.HasErrorCode(codeInvalidRegex) {
		return fmt.Errorf("%s %s: %w: %s", entity, key, domain.ErrValidation, err.Error())
	}

	return fmt.Errorf("%s %s: %w", entity, key, err)
}

// ensureIndexes creates the indexes of one collection. Failures are logged
// as warnings and never returned.
func ensureIndexes(ctx context.Context, coll *mongo.Collection, log *slog.Logger, indexes []mongo.IndexModel) {
	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		log.WarnContext(ctx, "ensure indexes",
			slog.String("collection", coll.Name()),
			slog.String("error", err.Error()),
		)
	}
}

// aggregateFilter translates the filters of opts for a collection keyed by
// (owner_id, tag).
func aggregateFilter(owner string, opts domain.QueryOptions) bson.D {
	filter := bson.D{{Key: "owner_id", Value: owner}}

	var and []bson.M
	if len(opts.Keys) > 0 {
		and = append(and, bson.M{"tag": bson.M{"$in": opts.Keys}})
	}
	if opts.Pattern != "" {
		and = append(and, bson.M{"tag": bson.Regex{Pattern: opts.Pattern, Options: "i"}})
	}
	if opts.Prefix != "" {
		and = append(and, bson.M{"tag": bson.Regex{Pattern: "^" + regexp.QuoteMeta(opts.Prefix)}})
	}
	if len(opts.Tags) > 0 {
		and = append(and, bson.M{"tags": bson.M{"$all": opts.Tags}})
	}
	if opts.OnlyUnread {
		and = append(and, bson.M{"unread_count": bson.M{"$gt": 0}})
	}
	if len(and) > 0 {
		filter = append(filter, bson.E{Key: "$and", Value: and})
	}
	return filter
}

// findAggregates returns options sorting by the counter of the sort mode
// (descending, tie-break by key) and applying the page window. opts must be
// normalized.
func findAggregates(opts domain.QueryOptions) *options.FindOptionsBuilder {
	return options.Find().
		SetSort(bson.D{
			{Key: opts.SortMode.SortColumn(), Value: -1},
			{Key: "tag", Value: 1},
		}).
		SetSkip(int64(opts.Offset)).
		SetLimit(int64(opts.Limit))
}

// boundedInc builds the conditional increment of unread_count. The filter
// only matches when the result stays within [0, posts_count]; withUpper
// false drops the upper bound.
func boundedInc(filter bson.D, delta int, withUpper bool) mongo.WriteModel {
	next := bson.M{"$add": bson.A{"$unread_count", delta}}
	cond := bson.A{bson.M{"$gte": bson.A{next, 0}}}
	if withUpper {
		cond = append(cond, bson.M{"$lte": bson.A{next, "$posts_count"}})
	}
	filter = append(filter, bson.E{Key: "$expr", Value: bson.M{"$and": cond}})

	return mongo.NewUpdateOneModel().
		SetFilter(filter).
		SetUpdate(bson.M{"$inc": bson.M{"unread_count": delta}})
}

// matchedCount runs an unordered bulk write and returns how many documents
// matched. Individual write errors do not stop the other models; they are
// logged and counted as unmatched.
func matchedCount(ctx context.Context, coll *mongo.Collection, log *slog.Logger, models []mongo.WriteModel) (int64, error) {
	if len(models) == 0 {
		return 0, nil
	}

	res, err := coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		var bwe mongo.BulkWriteException
		if !errors.As(err, &bwe) || bwe.WriteConcernError != nil {
			return 0, err
		}
		log.WarnContext(ctx, "bulk write partially failed",
			slog.String("collection", coll.Name()),
			slog.Int("failed", len(bwe.WriteErrors)),
		)
	}
	if res == nil {
		return 0, nil
	}
	return res.MatchedCount, nil
}
