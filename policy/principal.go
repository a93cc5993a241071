package policy

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"HospitalCare/models"
	"HospitalCare/role"
)

// Principal is the authenticated caller, loaded fresh from storage on each
// request together with the role profile it owns.
type Principal struct {
	User      *models.User
	PatientID *primitive.ObjectID
	DoctorID  *primitive.ObjectID
}

func (p *Principal) UserID() primitive.ObjectID {
	return p.User.ID
}

func (p *Principal) Role() role.Role {
	return p.User.Role
}

func (p *Principal) Is(r role.Role) bool {
	return p != nil && p.User != nil && p.User.Role == r
}

// Owner describes who a resource belongs to. Only the fields that apply to
// the resource type need to be set.
type Owner struct {
	PatientID *primitive.ObjectID
	DoctorID  *primitive.ObjectID
	UserIDs   []primitive.ObjectID
}

func OwnedByPatient(id primitive.ObjectID) Owner {
	return Owner{PatientID: &id}
}

func OwnedByDoctor(id primitive.ObjectID) Owner {
	return Owner{DoctorID: &id}
}

func OwnedByUsers(ids ...primitive.ObjectID) Owner {
	return Owner{UserIDs: ids}
}

// Clinical is the owner of a record that links a patient and a doctor.
func Clinical(patientID, doctorID primitive.ObjectID) Owner {
	return Owner{PatientID: &patientID, DoctorID: &doctorID}
}

func (p *Principal) owns(o Owner) bool {
	if p.PatientID != nil && o.PatientID != nil && *p.PatientID == *o.PatientID {
		return true
	}
	if p.DoctorID != nil && o.DoctorID != nil && *p.DoctorID == *o.DoctorID {
		return true
	}
	for _, id := range o.UserIDs {
		if id == p.User.ID {
			return true
		}
	}
	return false
}

// ScopeFor resolves the caller's reach for an action on a resource type.
func (p *Principal) ScopeFor(res Resource, act Action) Scope {
	if p == nil || p.User == nil {
		return ScopeNone
	}
	return Default.Scope(p.User.Role, res, act)
}

// Can is the single ownership check every service goes through.
func (p *Principal) Can(res Resource, act Action, o Owner) bool {
	switch p.ScopeFor(res, act) {
	case ScopeAll:
		return true
	case ScopeOwn:
		return p.owns(o)
	default:
		return false
	}
}
