package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"HospitalCare/db"
	"HospitalCare/models"
	"HospitalCare/util"
)

// SlotIndexName is the unique partial index that allows one slot-holding
// appointment per doctor, date and time.
const SlotIndexName = "doctor_slot_active_unique"

type Appointments struct {
	coll *mongo.Collection
}

func NewAppointments(m *db.Mongo) *Appointments {
	return &Appointments{coll: m.Collection(db.AppointmentCollection)}
}

func slotConflict() *util.AppError {
	return util.SlotConflict(util.SLOT_ALREADY_BOOKED)
}

/*
* Derive slotHeld from the status before writing
* Insert the appointment
* A duplicate key from the slot index means another booking holds the slot
 */
func (s *Appointments) Create(ctx context.Context, a *models.Appointment) error {
	ensureID(&a.ID)
	a.SlotHeld = a.Status.HoldsSlot()
	if a.Symptoms == nil {
		a.Symptoms = []string{}
	}
	stamp(&a.CreatedAt, &a.UpdatedAt)
	_, err := db.CreateOne(ctx, s.coll, a)
	return translateWrite(err, util.APPOINTMENT_NOT_FOUND, slotConflict())
}

func (s *Appointments) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	a, err := db.FindOne[models.Appointment](ctx, s.coll, bson.M{"_id": id})
	return a, translate(err, util.APPOINTMENT_NOT_FOUND)
}

// FindActive returns the appointment holding the slot, or nil when free.
func (s *Appointments) FindActive(ctx context.Context, doctorID primitive.ObjectID, date, hhmm string) (*models.Appointment, error) {
	filter := bson.M{
		"doctor":          doctorID,
		"appointmentDate": date,
		"appointmentTime": hhmm,
		"status":          bson.M{"$in": models.ActiveAppointmentStatuses},
	}
	a, err := db.FindOne[models.Appointment](ctx, s.coll, filter)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, util.Internal(err)
	}
	return a, nil
}

func appointmentQuery(f models.AppointmentFilter) bson.M {
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
	if f.Date != "" {
		filter["appointmentDate"] = f.Date
	}
	return filter
}

func (s *Appointments) List(ctx context.Context, f models.AppointmentFilter) ([]models.Appointment, int64, error) {
	filter := appointmentQuery(f)
	total, err := count(ctx, s.coll, filter)
	if err != nil {
		return nil, 0, err
	}
	p := f.Page.Normalize()
	sort := bson.D{{Key: "appointmentDate", Value: -1}, {Key: "appointmentTime", Value: -1}}
	list, err := db.FindAll[models.Appointment](ctx, s.coll, filter, db.PageOptions(p.Skip(), int64(p.Limit), sort))
	if err != nil {
		return nil, 0, util.Internal(err)
	}
	return list, total, nil
}

// Update replaces the appointment. Moving back into a slot-holding status
// fails with SlotConflict when someone else holds the slot.
func (s *Appointments) Update(ctx context.Context, a *models.Appointment) error {
	a.SlotHeld = a.Status.HoldsSlot()
	stamp(nil, &a.UpdatedAt)
	err := db.ReplaceByID(ctx, s.coll, a.ID, a)
	return translateWrite(err, util.APPOINTMENT_NOT_FOUND, slotConflict())
}

func (s *Appointments) Delete(ctx context.Context, id primitive.ObjectID) error {
	return translate(db.DeleteByID(ctx, s.coll, id), util.APPOINTMENT_NOT_FOUND)
}

func (s *Appointments) HasPatientWithDoctor(ctx context.Context, patientID, doctorID primitive.ObjectID) (bool, error) {
	n, err := count(ctx, s.coll, bson.M{"patient": patientID, "doctor": doctorID})
	return n > 0, err
}

func (s *Appointments) PatientIDsForDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	raw, err := s.coll.Distinct(ctx, "patient", bson.M{"doctor": doctorID})
	if err != nil {
		return nil, util.Internal(err)
	}
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// BookedTimes lists the HH:MM times a doctor has held on a date.
func (s *Appointments) BookedTimes(ctx context.Context, doctorID primitive.ObjectID, date string) ([]string, error) {
	filter := bson.M{"doctor": doctorID, "appointmentDate": date, "slotHeld": true}
	opts := options.Find().SetProjection(bson.M{"appointmentTime": 1})
	list, err := db.FindAll[models.Appointment](ctx, s.coll, filter, opts)
	if err != nil {
		return nil, util.Internal(err)
	}
	times := make([]string, 0, len(list))
	for _, a := range list {
		times = append(times, a.Time)
	}
	return times, nil
}

func (s *Appointments) FindHeldOn(ctx context.Context, date string) ([]models.Appointment, error) {
	list, err := db.FindAll[models.Appointment](ctx, s.coll, bson.M{"appointmentDate": date, "slotHeld": true})
	if err != nil {
		return nil, util.Internal(err)
	}
	return list, nil
}

// MarkNoShow moves every slot-holding appointment dated before the given
// day to no-show and releases its slot.
func (s *Appointments) MarkNoShow(ctx context.Context, before string) (int64, error) {
	filter := bson.M{"appointmentDate": bson.M{"$lt": before}, "slotHeld": true}
	update := bson.M{"$set": bson.M{
		"status":    models.AppointmentNoShow,
		"slotHeld":  false,
		"updatedAt": now(),
	}}
	res, err := s.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, util.Internal(err)
	}
	return res.ModifiedCount, nil
}

func dateRange(from, to string) bson.M {
	filter := bson.M{}
	r := bson.M{}
	if from != "" {
		r["$gte"] = from
	}
	if to != "" {
		r["$lte"] = to
	}
	if len(r) > 0 {
		filter["appointmentDate"] = r
	}
	return filter
}

func (s *Appointments) CountByStatus(ctx context.Context, from, to string) (map[string]int64, error) {
	return groupCount(ctx, s.coll, dateRange(from, to), "$status")
}

func (s *Appointments) CountByDepartment(ctx context.Context, from, to string) ([]models.DepartmentCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: dateRange(from, to)}},
		{{Key: "$group", Value: bson.M{"_id": "$department", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, util.Internal(err)
	}
	defer cursor.Close(ctx)

	out := make([]models.DepartmentCount, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, util.Internal(err)
	}
	return out, nil
}

func (s *Appointments) CountOn(ctx context.Context, date string) (int64, error) {
	return count(ctx, s.coll, bson.M{"appointmentDate": date})
}
