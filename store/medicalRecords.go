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

type MedicalRecords struct {
	coll *mongo.Collection
}

func NewMedicalRecords(m *db.Mongo) *MedicalRecords {
	return &MedicalRecords{coll: m.Collection(db.MedicalRecordCollection)}
}

func (s *MedicalRecords) Create(ctx context.Context, r *models.MedicalRecord) error {
	ensureID(&r.ID)
	if r.Medications == nil {
		r.Medications = []string{}
	}
	if r.Attachments == nil {
		r.Attachments = []models.Attachment{}
	}
	stamp(&r.CreatedAt, &r.UpdatedAt)
	_, err := db.CreateOne(ctx, s.coll, r)
	return translate(err, util.MEDICAL_RECORD_NOT_FOUND)
}

func (s *MedicalRecords) FindByID(ctx context.Context, id primitive.ObjectID) (*models.MedicalRecord, error) {
	r, err := db.FindOne[models.MedicalRecord](ctx, s.coll, bson.M{"_id": id})
	return r, translate(err, util.MEDICAL_RECORD_NOT_FOUND)
}

func (s *MedicalRecords) List(ctx context.Context, f models.MedicalRecordFilter) ([]models.MedicalRecord, int64, error) {
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
	opts := db.PageOptions(p.Skip(), int64(p.Limit), bson.D{{Key: "visitDate", Value: -1}})
	list, err := db.FindAll[models.MedicalRecord](ctx, s.coll, filter, opts)
	if err != nil {
		return nil, 0, util.Internal(err)
	}
	return list, total, nil
}

func (s *MedicalRecords) Update(ctx context.Context, r *models.MedicalRecord) error {
	stamp(nil, &r.UpdatedAt)
	return translate(db.ReplaceByID(ctx, s.coll, r.ID, r), util.MEDICAL_RECORD_NOT_FOUND)
}

func (s *MedicalRecords) Delete(ctx context.Context, id primitive.ObjectID) error {
	return translate(db.DeleteByID(ctx, s.coll, id), util.MEDICAL_RECORD_NOT_FOUND)
}
