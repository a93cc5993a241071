package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"HospitalCare/util"
)

type groupRow struct {
	Key   interface{} `bson:"_id"`
	Count int64       `bson:"count"`
}

// groupCount counts documents matching filter grouped by a field
// expression such as "$status".
func groupCount(ctx context.Context, coll *mongo.Collection, filter bson.M, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.M{"_id": field, "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, util.Internal(err)
	}
	defer cursor.Close(ctx)

	var rows []groupRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, util.Internal(err)
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[fmt.Sprint(r.Key)] = r.Count
	}
	return out, nil
}
