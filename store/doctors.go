package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"HospitalCare/db"
	"HospitalCare/models"
	"HospitalCare/util"
)

type Doctors struct {
	coll *mongo.Collection
}

func NewDoctors(m *db.Mongo) *Doctors {
	return &Doctors{coll: m.Collection(db.DoctorCollection)}
}

// Create assigns the default weekly availability when none is given.
func (s *Doctors) Create(ctx context.Context, d *models.Doctor) error {
	ensureID(&d.ID)
	if len(d.Availability) == 0 {
		d.Availability = models.DefaultAvailability()
	}
	stamp(&d.CreatedAt, &d.UpdatedAt)
	_, err := db.CreateOne(ctx, s.coll, d)
	return translateWrite(err, util.DOCTOR_NOT_FOUND, util.DuplicateKey(util.LICENSE_ALREADY_REGISTERED))
}

func (s *Doctors) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	d, err := db.FindOne[models.Doctor](ctx, s.coll, bson.M{"_id": id})
	return d, translate(err, util.DOCTOR_NOT_FOUND)
}

func (s *Doctors) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Doctor, error) {
	d, err := db.FindOne[models.Doctor](ctx, s.coll, bson.M{"user": userID})
	return d, translate(err, util.DOCTOR_PROFILE_MISSING)
}

func (s *Doctors) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Doctor, error) {
	docs, err := db.FindAll[models.Doctor](ctx, s.coll, bson.M{"_id": inIDs(ids)})
	return docs, translate(err, util.DOCTOR_NOT_FOUND)
}

func (s *Doctors) ExistsByLicense(ctx context.Context, license string) (bool, error) {
	n, err := count(ctx, s.coll, bson.M{"licenseNumber": license})
	return n > 0, err
}

func (s *Doctors) List(ctx context.Context, f models.DoctorFilter) ([]models.Doctor, error) {
	filter := bson.M{}
	if f.Specialization != "" {
		filter["specialization"] = f.Specialization
	}
	if f.Department != "" {
		filter["department"] = f.Department
	}
	opts := options.Find().SetSort(bson.D{{Key: "department", Value: 1}, {Key: "specialization", Value: 1}})
	docs, err := db.FindAll[models.Doctor](ctx, s.coll, filter, opts)
	return docs, translate(err, util.DOCTOR_NOT_FOUND)
}

func (s *Doctors) Update(ctx context.Context, d *models.Doctor) error {
	stamp(nil, &d.UpdatedAt)
	err := db.ReplaceByID(ctx, s.coll, d.ID, d)
	return translateWrite(err, util.DOCTOR_NOT_FOUND, util.DuplicateKey(util.LICENSE_ALREADY_REGISTERED))
}
