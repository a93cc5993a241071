package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"HospitalCare/db"
	"HospitalCare/util"
)

type Counters struct {
	coll *mongo.Collection
}

func NewCounters(m *db.Mongo) *Counters {
	return &Counters{coll: m.Collection(db.CounterCollection)}
}

type counter struct {
	Name string `bson:"_id"`
	Seq  int64  `bson:"seq"`
}

// Next atomically increments the named sequence and returns the new value,
// starting at 1.
func (s *Counters) Next(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var c counter
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&c)
	if err != nil {
		return 0, util.Internal(err)
	}
	return c.Seq, nil
}
