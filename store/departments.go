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

type Departments struct {
	coll *mongo.Collection
}

func NewDepartments(m *db.Mongo) *Departments {
	return &Departments{coll: m.Collection(db.DepartmentCollection)}
}

func (s *Departments) Create(ctx context.Context, d *models.Department) error {
	ensureID(&d.ID)
	stamp(&d.CreatedAt, &d.UpdatedAt)
	_, err := db.CreateOne(ctx, s.coll, d)
	return translateWrite(err, util.DEPARTMENT_NOT_FOUND, util.DuplicateKey(util.DEPARTMENT_NAME_EXISTS))
}

func (s *Departments) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Department, error) {
	d, err := db.FindOne[models.Department](ctx, s.coll, bson.M{"_id": id})
	return d, translate(err, util.DEPARTMENT_NOT_FOUND)
}

func (s *Departments) List(ctx context.Context) ([]models.Department, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	list, err := db.FindAll[models.Department](ctx, s.coll, bson.M{}, opts)
	return list, translate(err, util.DEPARTMENT_NOT_FOUND)
}

func (s *Departments) Update(ctx context.Context, d *models.Department) error {
	stamp(nil, &d.UpdatedAt)
	err := db.ReplaceByID(ctx, s.coll, d.ID, d)
	return translateWrite(err, util.DEPARTMENT_NOT_FOUND, util.DuplicateKey(util.DEPARTMENT_NAME_EXISTS))
}

func (s *Departments) Delete(ctx context.Context, id primitive.ObjectID) error {
	return translate(db.DeleteByID(ctx, s.coll, id), util.DEPARTMENT_NOT_FOUND)
}
