package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

type postDoc struct {
	ID         string    `bson:"_id"`
	OwnerID    string    `bson:"owner_id"`
	FeedID     string    `bson:"feed_id"`
	CategoryID string    `bson:"category_id"`
	Title      string    `bson:"title"`
	Content    string    `bson:"content"`
	URL        string    `bson:"url"`
	Read       bool      `bson:"read"`
	Favorite   bool      `bson:"favorite"`
	Tags       []string  `bson:"tags"`
	BiGrams    []string  `bson:"bi_grams"`
	Processing string    `bson:"processing"`
	CreatedAt  time.Time `bson:"created_at"`
}

func toPostDoc(p domain.Post) postDoc {
	return postDoc{
		ID:         p.ID.String(),
		OwnerID:    p.OwnerID.String(),
		FeedID:     p.FeedID,
		CategoryID: p.CategoryID,
		Title:      p.Title,
		Content:    p.Content,
		URL:        p.URL,
		Read:       p.Read,
		Favorite:   p.Favorite,
		Tags:       nonNil(p.Tags),
		BiGrams:    nonNil(p.BiGrams),
		Processing: string(p.Processing),
		CreatedAt:  p.CreatedAt,
	}
}

func (d postDoc) toDomain() (domain.Post, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Post{}, fmt.Errorf("post _id: %w", err)
	}
	owner, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return domain.Post{}, fmt.Errorf("post %s: owner_id: %w", d.ID, err)
	}
	return domain.Post{
		ID:         id,
		OwnerID:    owner,
		FeedID:     d.FeedID,
		CategoryID: d.CategoryID,
		Title:      d.Title,
		Content:    d.Content,
		URL:        d.URL,
		Read:       d.Read,
		Favorite:   d.Favorite,
		Tags:       nonNil(d.Tags),
		BiGrams:    nonNil(d.BiGrams),
		Processing: domain.ProcessingState(d.Processing),
		CreatedAt:  d.CreatedAt,
	}, nil
}

// PostRepo provides post persistence backed by MongoDB.
type PostRepo struct {
	coll *mongo.Collection
	log  *slog.Logger
}

// NewPostRepo creates a post repository on db.
func NewPostRepo(db *mongo.Database, logger *slog.Logger) *PostRepo {
	return &PostRepo{coll: db.Collection(PostsCollection), log: logger.With("repo", "mongo_posts")}
}

// Insert stores a new post as produced by the downloader.
func (r *PostRepo) Insert(ctx context.Context, p domain.Post) error {
	if p.Processing == "" {
		p.Processing = domain.ProcessingIdle
	}
	if _, err := r.coll.InsertOne(ctx, toPostDoc(p)); err != nil {
		return mapError(err, "post", p.ID.String())
	}
	return nil
}

// Get returns one post of the owner. Returns domain.ErrNotFound if absent.
func (r *PostRepo) Get(ctx context.Context, owner, id uuid.UUID) (*domain.Post, error) {
	var doc postDoc
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}, {Key: "owner_id", Value: owner.String()}}).Decode(&doc)
	if err != nil {
		return nil, mapError(err, "post", id.String())
	}
	p, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PendingOwners returns the owners that have posts waiting for tagging.
func (r *PostRepo) PendingOwners(ctx context.Context) ([]uuid.UUID, error) {
	var raw []string
	err := r.coll.Distinct(ctx, "owner_id", bson.D{{Key: "processing", Value: string(domain.ProcessingIdle)}}).Decode(&raw)
	if err != nil {
		return nil, fmt.Errorf("list pending owners: %w", err)
	}

	owners := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("list pending owners: %w", err)
		}
		owners = append(owners, id)
	}
	return owners, nil
}

// ClaimPending marks up to limit idle posts of the owner as in processing
// and returns them oldest first. Each post is claimed with a conditional
// update, so a post taken by another worker in between is skipped.
func (r *PostRepo) ClaimPending(ctx context.Context, owner uuid.UUID, limit int) ([]domain.Post, error) {
	idle := bson.D{
		{Key: "owner_id", Value: owner.String()},
		{Key: "processing", Value: string(domain.ProcessingIdle)},
	}
	candidates, err := r.find(ctx, "claim pending posts", idle, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}

	claimed := make([]domain.Post, 0, len(candidates))
	for _, c := range candidates {
		var doc postDoc
		err := r.coll.FindOneAndUpdate(ctx,
			bson.D{{Key: "_id", Value: c.ID}, {Key: "processing", Value: string(domain.ProcessingIdle)}},
			bson.M{"$set": bson.M{"processing": string(domain.ProcessingInProgress)}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return nil, mapError(err, "post", c.ID)
		}
		p, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		claimed = append(claimed, p)
	}
	return claimed, nil
}

// SaveTags stores the computed tag and bi-gram keys and marks the post done.
// Returns domain.ErrNotFound if the post is not in processing.
func (r *PostRepo) SaveTags(ctx context.Context, id uuid.UUID, tags, biGrams []string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id.String()}, {Key: "processing", Value: string(domain.ProcessingInProgress)}},
		bson.M{"$set": bson.M{
			"tags":       nonNil(tags),
			"bi_grams":   nonNil(biGrams),
			"processing": string(domain.ProcessingDone),
		}},
	)
	if err != nil {
		return mapError(err, "post", id.String())
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Release returns a post to the idle state after a failed attempt. Without
// transactions SaveTags may already have marked the post done when the
// aggregate update fails, so done posts are reset as well and the post is
// tagged again on the next run.
func (r *PostRepo) Release(ctx context.Context, id uuid.UUID) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.D{
			{Key: "_id", Value: id.String()},
			{Key: "processing", Value: bson.M{"$in": bson.A{
				string(domain.ProcessingInProgress),
				string(domain.ProcessingDone),
			}}},
		},
		bson.M{"$set": bson.M{
			"processing": string(domain.ProcessingIdle),
			"tags":       []string{},
			"bi_grams":   []string{},
		}},
	)
	if err != nil {
		return mapError(err, "post", id.String())
	}
	return nil
}

// SetRead sets the read flag of the owner's posts that are not in processing
// and returns the posts whose flag actually changed. Posts are updated one by one, so on
// error the posts flipped before the failure are returned with it.
func (r *PostRepo) SetRead(ctx context.Context, owner uuid.UUID, ids []uuid.UUID, read bool) ([]domain.Post, error) {
	if len(ids) == 0 {
		return []domain.Post{}, nil
	}

	changed := make([]domain.Post, 0, len(ids))
	for _, postID := range ids {
		id := postID.String()
		var doc postDoc
		err := r.coll.FindOneAndUpdate(ctx,
			bson.D{
				{Key: "_id", Value: id},
				{Key: "owner_id", Value: owner.String()},
				{Key: "processing", Value: bson.M{"$ne": string(domain.ProcessingInProgress)}},
				{Key: "read", Value: !read},
			},
			bson.M{"$set": bson.M{"read": read}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return changed, mapError(err, "post", id)
		}
		p, err := doc.toDomain()
		if err != nil {
			return changed, err
		}
		changed = append(changed, p)
	}
	return changed, nil
}

// Prepare creates the pending lookup index. Failures are logged.
func (r *PostRepo) Prepare(ctx context.Context) {
	ensureIndexes(ctx, r.coll, r.log, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "processing", Value: 1}, {Key: "created_at", Value: 1}}},
	})
}

func (r *PostRepo) find(ctx context.Context, op string, filter bson.D, opts *options.FindOptionsBuilder) ([]postDoc, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return docs, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
