package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"HospitalCare/models"
)

// directory joins profiles with the display fields of their accounts.
type directory struct {
	users    UserRepository
	doctors  DoctorRepository
	patients PatientRepository
}

func (d directory) usersByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	out := make(map[primitive.ObjectID]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := d.users.FindByIDs(ctx, idSet(ids))
	if err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

func (d directory) doctorViews(ctx context.Context, list []models.Doctor) ([]models.DoctorView, error) {
	userIDs := make([]primitive.ObjectID, 0, len(list))
	for _, doc := range list {
		userIDs = append(userIDs, doc.UserID)
	}
	users, err := d.usersByID(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	views := make([]models.DoctorView, 0, len(list))
	for _, doc := range list {
		views = append(views, models.DoctorView{Doctor: doc, User: users[doc.UserID].Summary()})
	}
	return views, nil
}

func (d directory) doctorView(ctx context.Context, doc *models.Doctor) (*models.DoctorView, error) {
	views, err := d.doctorViews(ctx, []models.Doctor{*doc})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (d directory) patientViews(ctx context.Context, list []models.Patient) ([]models.PatientView, error) {
	userIDs := make([]primitive.ObjectID, 0, len(list))
	for _, p := range list {
		userIDs = append(userIDs, p.UserID)
	}
	users, err := d.usersByID(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	views := make([]models.PatientView, 0, len(list))
	for _, p := range list {
		views = append(views, models.PatientView{Patient: p, User: users[p.UserID].Summary()})
	}
	return views, nil
}

func (d directory) patientView(ctx context.Context, p *models.Patient) (*models.PatientView, error) {
	views, err := d.patientViews(ctx, []models.Patient{*p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

/*
* Collect the doctor and patient ids referenced by the appointments
* Load the profiles and then their accounts in two batched reads each
* Attach the display summaries, leaving them empty for dangling references
 */
func (d directory) appointmentViews(ctx context.Context, list []models.Appointment) ([]models.AppointmentView, error) {
	doctorIDs := make([]primitive.ObjectID, 0, len(list))
	patientIDs := make([]primitive.ObjectID, 0, len(list))
	for _, a := range list {
		doctorIDs = append(doctorIDs, a.DoctorID)
		patientIDs = append(patientIDs, a.PatientID)
	}

	doctors, err := d.doctors.FindByIDs(ctx, idSet(doctorIDs))
	if err != nil {
		return nil, err
	}
	patients, err := d.patients.FindByIDs(ctx, idSet(patientIDs))
	if err != nil {
		return nil, err
	}

	userIDs := make([]primitive.ObjectID, 0, len(doctors)+len(patients))
	doctorByID := make(map[primitive.ObjectID]*models.Doctor, len(doctors))
	for i := range doctors {
		doctorByID[doctors[i].ID] = &doctors[i]
		userIDs = append(userIDs, doctors[i].UserID)
	}
	patientByID := make(map[primitive.ObjectID]*models.Patient, len(patients))
	for i := range patients {
		patientByID[patients[i].ID] = &patients[i]
		userIDs = append(userIDs, patients[i].UserID)
	}
	users, err := d.usersByID(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.AppointmentView, 0, len(list))
	for _, a := range list {
		v := models.AppointmentView{Appointment: a}
		if doc, ok := doctorByID[a.DoctorID]; ok {
			v.Doctor = doc.Summary(users[doc.UserID])
		}
		if p, ok := patientByID[a.PatientID]; ok {
			v.Patient = p.Summary(users[p.UserID])
		}
		views = append(views, v)
	}
	return views, nil
}

func (d directory) appointmentView(ctx context.Context, a *models.Appointment) (*models.AppointmentView, error) {
	views, err := d.appointmentViews(ctx, []models.Appointment{*a})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
