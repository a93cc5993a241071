package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"HospitalCare/db"
	"HospitalCare/util"
)

// Store groups the Mongo-backed repositories.
type Store struct {
	Users          *Users
	Doctors        *Doctors
	Patients       *Patients
	Appointments   *Appointments
	Prescriptions  *Prescriptions
	MedicalRecords *MedicalRecords
	Invoices       *Invoices
	Messages       *Messages
	Departments    *Departments
	Counters       *Counters
}

func New(m *db.Mongo) *Store {
	return &Store{
		Users:          NewUsers(m),
		Doctors:        NewDoctors(m),
		Patients:       NewPatients(m),
		Appointments:   NewAppointments(m),
		Prescriptions:  NewPrescriptions(m),
		MedicalRecords: NewMedicalRecords(m),
		Invoices:       NewInvoices(m),
		Messages:       NewMessages(m),
		Departments:    NewDepartments(m),
		Counters:       NewCounters(m),
	}
}

var now = func() time.Time { return time.Now().UTC() }

/*
* Map driver errors onto the application taxonomy
* No documents becomes NotFound with the given message
* A unique index violation becomes DuplicateKey unless the caller overrides it
* Anything else is a server error
 */
func translate(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return util.NotFound(notFoundMsg)
	}
	if mongo.IsDuplicateKeyError(err) {
		return util.DuplicateKey("Duplicate value for a unique field")
	}
	return util.Internal(err)
}

func translateWrite(err error, notFoundMsg string, duplicate *util.AppError) error {
	if err != nil && mongo.IsDuplicateKeyError(err) && duplicate != nil {
		return duplicate
	}
	return translate(err, notFoundMsg)
}

func ensureID(id *primitive.ObjectID) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
}

func stamp(created, updated *time.Time) {
	t := now()
	if created != nil && created.IsZero() {
		*created = t
	}
	*updated = t
}

// inIDs builds an $in filter value, never nil so Mongo accepts it.
func inIDs(ids []primitive.ObjectID) bson.M {
	if ids == nil {
		ids = []primitive.ObjectID{}
	}
	return bson.M{"$in": ids}
}

func count(ctx context.Context, coll *mongo.Collection, filter bson.M) (int64, error) {
	n, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, util.Internal(err)
	}
	return n, nil
}
