package mongo

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// aggregateIndexes are shared by the tag and bi-gram collections.
func aggregateIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "tag", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "posts_count", Value: -1}, {Key: "tag", Value: 1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "unread_count", Value: -1}, {Key: "tag", Value: 1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "temperature", Value: -1}, {Key: "tag", Value: 1}}},
	}
}

// upsertModel counts one more post for the document matched by filter.
// setOnInsert holds the fields written only when the document is created.
func upsertModel(filter bson.D, unread bool, setOnInsert bson.M) mongo.WriteModel {
	unreadInc := 0
	if unread {
		unreadInc = 1
	}

	update := bson.M{
		"$inc": bson.M{
			"posts_count":  1,
			"unread_count": unreadInc,
			"temperature":  1.0,
		},
	}
	if len(setOnInsert) > 0 {
		update["$setOnInsert"] = setOnInsert
	}

	return mongo.NewUpdateOneModel().
		SetFilter(filter).
		SetUpdate(update).
		SetUpsert(true)
}

func decay(ctx context.Context, coll *mongo.Collection, factor float64) (int64, error) {
	res, err := coll.UpdateMany(ctx,
		bson.M{"temperature": bson.M{"$gt": 0}},
		bson.M{"$mul": bson.M{"temperature": factor}},
	)
	if err != nil {
		return 0, fmt.Errorf("decay %s temperature: %w", coll.Name(), err)
	}
	return res.ModifiedCount, nil
}

func distinctOwners(ctx context.Context, coll *mongo.Collection) ([]uuid.UUID, error) {
	var raw []string
	if err := coll.Distinct(ctx, "owner_id", bson.D{}).Decode(&raw); err != nil {
		return nil, fmt.Errorf("list %s owners: %w", coll.Name(), err)
	}
	slices.Sort(raw)

	owners := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("list %s owners: %w", coll.Name(), err)
		}
		owners = append(owners, id)
	}
	return owners, nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
