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

type Prescriptions struct {
	coll *mongo.Collection
}

func NewPrescriptions(m *db.Mongo) *Prescriptions {
	return &Prescriptions{coll: m.Collection(db.PrescriptionCollection)}
}

func (s *Prescriptions) Create(ctx context.Context, p *models.Prescription) error {
	ensureID(&p.ID)
	stamp(&p.CreatedAt, &p.UpdatedAt)
	_, err := db.CreateOne(ctx, s.coll, p)
	return translate(err, util.PRESCRIPTION_NOT_FOUND)
}

func (s *Prescriptions) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Prescription, error) {
	p, err := db.FindOne[models.Prescription](ctx, s.coll, bson.M{"_id": id})
	return p, translate(err, util.PRESCRIPTION_NOT_FOUND)
}

func (s *Prescriptions) List(ctx context.Context, f models.PrescriptionFilter) ([]models.Prescription, int64, error) {
	filter := bson.M{}
	if f.PatientID != nil {
		filter["patient"] = *f.PatientID
	}
	if f.DoctorID != nil {
		filter["doctor"] = *f.DoctorID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	total, err := count(ctx, s.coll, filter)
	if err != nil {
		return nil, 0, err
	}
	p := f.Page.Normalize()
	opts := db.PageOptions(p.Skip(), int64(p.Limit), bson.D{{Key: "issuedDate", Value: -1}})
	list, err := db.FindAll[models.Prescription](ctx, s.coll, filter, opts)
	if err != nil {
		return nil, 0, util.Internal(err)
	}
	return list, total, nil
}

func (s *Prescriptions) Update(ctx context.Context, p *models.Prescription) error {
	stamp(nil, &p.UpdatedAt)
	return translate(db.ReplaceByID(ctx, s.coll, p.ID, p), util.PRESCRIPTION_NOT_FOUND)
}

func (s *Prescriptions) Delete(ctx context.Context, id primitive.ObjectID) error {
	return translate(db.DeleteByID(ctx, s.coll, id), util.PRESCRIPTION_NOT_FOUND)
}
