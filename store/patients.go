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

type Patients struct {
	coll *mongo.Collection
}

func NewPatients(m *db.Mongo) *Patients {
	return &Patients{coll: m.Collection(db.PatientCollection)}
}

func (s *Patients) Create(ctx context.Context, p *models.Patient) error {
	ensureID(&p.ID)
	if p.Allergies == nil {
		p.Allergies = []string{}
	}
	if p.CurrentMedications == nil {
		p.CurrentMedications = []string{}
	}
	if p.MedicalHistory == nil {
		p.MedicalHistory = []models.MedicalHistoryEntry{}
	}
	stamp(&p.CreatedAt, &p.UpdatedAt)
	_, err := db.CreateOne(ctx, s.coll, p)
	return translate(err, util.PATIENT_NOT_FOUND)
}

func (s *Patients) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Patient, error) {
	p, err := db.FindOne[models.Patient](ctx, s.coll, bson.M{"_id": id})
	return p, translate(err, util.PATIENT_NOT_FOUND)
}

func (s *Patients) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Patient, error) {
	p, err := db.FindOne[models.Patient](ctx, s.coll, bson.M{"user": userID})
	return p, translate(err, util.PATIENT_PROFILE_MISSING)
}

func (s *Patients) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Patient, error) {
	ps, err := db.FindAll[models.Patient](ctx, s.coll, bson.M{"_id": inIDs(ids)})
	return ps, translate(err, util.PATIENT_NOT_FOUND)
}

func (s *Patients) List(ctx context.Context, f models.PatientFilter) ([]models.Patient, int64, error) {
	filter := bson.M{}
	if f.IDs != nil {
		filter["_id"] = inIDs(f.IDs)
	}
	total, err := count(ctx, s.coll, filter)
	if err != nil {
		return nil, 0, err
	}
	p := f.Page.Normalize()
	opts := db.PageOptions(p.Skip(), int64(p.Limit), bson.D{{Key: "createdAt", Value: -1}})
	ps, err := db.FindAll[models.Patient](ctx, s.coll, filter, opts)
	if err != nil {
		return nil, 0, util.Internal(err)
	}
	return ps, total, nil
}

func (s *Patients) Update(ctx context.Context, p *models.Patient) error {
	stamp(nil, &p.UpdatedAt)
	return translate(db.ReplaceByID(ctx, s.coll, p.ID, p), util.PATIENT_NOT_FOUND)
}
