package store

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"HospitalCare/db"
	"HospitalCare/models"
	"HospitalCare/role"
	"HospitalCare/util"
)

type Users struct {
	coll     *mongo.Collection
	doctors  *mongo.Collection
	patients *mongo.Collection
}

func NewUsers(m *db.Mongo) *Users {
	return &Users{
		coll:     m.Collection(db.UserCollection),
		doctors:  m.Collection(db.DoctorCollection),
		patients: m.Collection(db.PatientCollection),
	}
}

func (s *Users) Create(ctx context.Context, u *models.User) error {
	ensureID(&u.ID)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	stamp(&u.CreatedAt, &u.UpdatedAt)
	_, err := db.CreateOne(ctx, s.coll, u)
	return translateWrite(err, util.USER_NOT_FOUND, util.DuplicateKey(util.EMAIL_ALREADY_REGISTERED))
}

func (s *Users) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, err := db.FindOne[models.User](ctx, s.coll, bson.M{"_id": id})
	return u, translate(err, util.USER_NOT_FOUND)
}

func (s *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	filter := bson.M{"email": strings.ToLower(strings.TrimSpace(email))}
	u, err := db.FindOne[models.User](ctx, s.coll, filter)
	return u, translate(err, util.USER_NOT_FOUND)
}

func (s *Users) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	users, err := db.FindAll[models.User](ctx, s.coll, bson.M{"_id": inIDs(ids)})
	return users, translate(err, util.USER_NOT_FOUND)
}

func (s *Users) List(ctx context.Context, f models.UserFilter) ([]models.User, int64, error) {
	filter := bson.M{}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	total, err := count(ctx, s.coll, filter)
	if err != nil {
		return nil, 0, err
	}
	p := f.Page.Normalize()
	opts := db.PageOptions(p.Skip(), int64(p.Limit), bson.D{{Key: "createdAt", Value: -1}})
	users, err := db.FindAll[models.User](ctx, s.coll, filter, opts)
	if err != nil {
		return nil, 0, util.Internal(err)
	}
	return users, total, nil
}

func (s *Users) Update(ctx context.Context, u *models.User) error {
	stamp(nil, &u.UpdatedAt)
	err := db.ReplaceByID(ctx, s.coll, u.ID, u)
	return translateWrite(err, util.USER_NOT_FOUND, util.DuplicateKey(util.EMAIL_ALREADY_REGISTERED))
}

func (s *Users) Delete(ctx context.Context, id primitive.ObjectID) error {
	return translate(db.DeleteByID(ctx, s.coll, id), util.USER_NOT_FOUND)
}

/*
* Remove the role profile owned by the user first
* Then remove the account itself
* A missing profile is not an error
 */
func (s *Users) DeleteWithProfile(ctx context.Context, u *models.User) error {
	var profiles *mongo.Collection
	switch u.Role {
	case role.Doctor:
		profiles = s.doctors
	case role.Patient:
		profiles = s.patients
	}
	if profiles != nil {
		if _, err := profiles.DeleteOne(ctx, bson.M{"user": u.ID}); err != nil {
			return util.Internal(err)
		}
	}
	return s.Delete(ctx, u.ID)
}

func (s *Users) ExistsWithRole(ctx context.Context, r role.Role) (bool, error) {
	n, err := count(ctx, s.coll, bson.M{"role": r})
	return n > 0, err
}

func (s *Users) CountByRole(ctx context.Context) (map[string]int64, error) {
	return groupCount(ctx, s.coll, bson.M{}, "$role")
}
