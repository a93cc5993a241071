package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"HospitalCare/db"
	"HospitalCare/models"
	"HospitalCare/util"
)

type Invoices struct {
	coll *mongo.Collection
}

func NewInvoices(m *db.Mongo) *Invoices {
	return &Invoices{coll: m.Collection(db.InvoiceCollection)}
}

func (s *Invoices) Create(ctx context.Context, inv *models.Invoice) error {
	ensureID(&inv.ID)
	stamp(&inv.CreatedAt, &inv.UpdatedAt)
	_, err := db.CreateOne(ctx, s.coll, inv)
	return translateWrite(err, util.INVOICE_NOT_FOUND, util.DuplicateKey("Invoice number already exists"))
}

func (s *Invoices) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Invoice, error) {
	inv, err := db.FindOne[models.Invoice](ctx, s.coll, bson.M{"_id": id})
	return inv, translate(err, util.INVOICE_NOT_FOUND)
}

func (s *Invoices) List(ctx context.Context, f models.InvoiceFilter) ([]models.Invoice, int64, error) {
	filter := bson.M{}
	if f.PatientID != nil {
		filter["patient"] = *f.PatientID
	}
	if f.PaymentStatus != "" {
		filter["paymentStatus"] = f.PaymentStatus
	}
	total, err := count(ctx, s.coll, filter)
	if err != nil {
		return nil, 0, err
	}
	p := f.Page.Normalize()
	opts := db.PageOptions(p.Skip(), int64(p.Limit), bson.D{{Key: "createdAt", Value: -1}})
	list, err := db.FindAll[models.Invoice](ctx, s.coll, filter, opts)
	if err != nil {
		return nil, 0, util.Internal(err)
	}
	return list, total, nil
}

func (s *Invoices) Update(ctx context.Context, inv *models.Invoice) error {
	stamp(nil, &inv.UpdatedAt)
	return translate(db.ReplaceByID(ctx, s.coll, inv.ID, inv), util.INVOICE_NOT_FOUND)
}

func (s *Invoices) Delete(ctx context.Context, id primitive.ObjectID) error {
	return translate(db.DeleteByID(ctx, s.coll, id), util.INVOICE_NOT_FOUND)
}

// MarkOverdue flags unpaid invoices whose due date has passed.
func (s *Invoices) MarkOverdue(ctx context.Context, at time.Time) (int64, error) {
	filter := bson.M{
		"paymentStatus": bson.M{"$in": []models.PaymentStatus{models.PaymentPending, models.PaymentPartial}},
		"dueDate":       bson.M{"$lt": at},
	}
	update := bson.M{"$set": bson.M{"paymentStatus": models.PaymentOverdue, "updatedAt": now()}}
	res, err := s.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, util.Internal(err)
	}
	return res.ModifiedCount, nil
}

func (s *Invoices) Revenue(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"paymentStatus": models.PaymentPaid}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$totalAmount"}}}},
	}
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, util.Internal(err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, util.Internal(err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func (s *Invoices) CountOutstanding(ctx context.Context) (int64, error) {
	statuses := []models.PaymentStatus{models.PaymentPending, models.PaymentPartial, models.PaymentOverdue}
	return count(ctx, s.coll, bson.M{"paymentStatus": bson.M{"$in": statuses}})
}
