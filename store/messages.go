package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"HospitalCare/db"
	"HospitalCare/models"
	"HospitalCare/util"
)

type Messages struct {
	coll *mongo.Collection
}

func NewMessages(m *db.Mongo) *Messages {
	return &Messages{coll: m.Collection(db.MessageCollection)}
}

func (s *Messages) Create(ctx context.Context, msg *models.Message) error {
	ensureID(&msg.ID)
	stamp(&msg.CreatedAt, &msg.UpdatedAt)
	_, err := db.CreateOne(ctx, s.coll, msg)
	return translate(err, util.MESSAGE_NOT_FOUND)
}

func (s *Messages) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	msg, err := db.FindOne[models.Message](ctx, s.coll, bson.M{"_id": id})
	return msg, translate(err, util.MESSAGE_NOT_FOUND)
}

func (s *Messages) page(ctx context.Context, filter bson.M, p models.Page) ([]models.Message, int64, error) {
	total, err := count(ctx, s.coll, filter)
	if err != nil {
		return nil, 0, err
	}
	p = p.Normalize()
	opts := db.PageOptions(p.Skip(), int64(p.Limit), bson.D{{Key: "createdAt", Value: -1}})
	list, err := db.FindAll[models.Message](ctx, s.coll, filter, opts)
	if err != nil {
		return nil, 0, util.Internal(err)
	}
	return list, total, nil
}

// Inbox returns direct messages to the user plus broadcasts, newest first.
func (s *Messages) Inbox(ctx context.Context, userID primitive.ObjectID, p models.Page) ([]models.Message, int64, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"recipient": userID},
		bson.M{"recipient": bson.M{"$exists": false}},
	}}
	return s.page(ctx, filter, p)
}

func (s *Messages) Sent(ctx context.Context, userID primitive.ObjectID, p models.Page) ([]models.Message, int64, error) {
	return s.page(ctx, bson.M{"sender": userID}, p)
}

func (s *Messages) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	statuses := []models.MessageStatus{models.MessageSent, models.MessageDelivered}
	return count(ctx, s.coll, bson.M{"recipient": userID, "status": bson.M{"$in": statuses}})
}

func (s *Messages) Update(ctx context.Context, msg *models.Message) error {
	stamp(nil, &msg.UpdatedAt)
	return translate(db.ReplaceByID(ctx, s.coll, msg.ID, msg), util.MESSAGE_NOT_FOUND)
}

func (s *Messages) Delete(ctx context.Context, id primitive.ObjectID) error {
	return translate(db.DeleteByID(ctx, s.coll, id), util.MESSAGE_NOT_FOUND)
}
