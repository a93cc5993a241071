package policy

import "HospitalCare/role"

type Resource string

const (
	Appointment   Resource = "appointment"
	Patient       Resource = "patient"
	Doctor        Resource = "doctor"
	Prescription  Resource = "prescription"
	Invoice       Resource = "invoice"
	MedicalRecord Resource = "medicalRecord"
	Message       Resource = "message"
	Department    Resource = "department"
	User          Resource = "user"
	Stats         Resource = "stats"
)

type Action string

const (
	Create Action = "create"
	View   Action = "view"
	Update Action = "update"
	Delete Action = "delete"
)

// Scope is how far a capability reaches.
type Scope int

const (
	// ScopeNone denies the action.
	ScopeNone Scope = iota
	// ScopeOwn allows the action on resources the caller owns.
	ScopeOwn
	// ScopeAll allows the action on every resource of the type.
	ScopeAll
)

func (s Scope) String() string {
	switch s {
	case ScopeOwn:
		return "own"
	case ScopeAll:
		return "all"
	default:
		return "none"
	}
}

type Authorizer interface {
	Scope(r role.Role, res Resource, act Action) Scope
}

type grants map[Action]Scope

// Table maps role -> resource -> action -> scope. Missing entries deny.
type Table map[role.Role]map[Resource]grants

func (t Table) Scope(r role.Role, res Resource, act Action) Scope {
	byResource, ok := t[r]
	if !ok {
		return ScopeNone
	}
	return byResource[res][act]
}

func own(actions ...Action) grants {
	g := grants{}
	for _, a := range actions {
		g[a] = ScopeOwn
	}
	return g
}

func all(actions ...Action) grants {
	g := grants{}
	for _, a := range actions {
		g[a] = ScopeAll
	}
	return g
}

func merge(gs ...grants) grants {
	out := grants{}
	for _, g := range gs {
		for a, s := range g {
			out[a] = s
		}
	}
	return out
}

var crud = []Action{Create, View, Update, Delete}

// Default is the hospital's capability table.
var Default Authorizer = Table{
	role.Admin: {
		Appointment:   all(crud...),
		Patient:       all(View, Update),
		Doctor:        all(View, Update),
		Prescription:  all(View, Update, Delete),
		Invoice:       all(crud...),
		MedicalRecord: all(View, Update, Delete),
		Message:       all(crud...),
		Department:    all(crud...),
		User:          all(View, Update, Delete),
		Stats:         all(View),
	},
	role.Doctor: {
		Appointment:   own(View, Update, Delete),
		Patient:       own(View),
		Doctor:        merge(all(View), own(Update)),
		Prescription:  own(Create, View, Update),
		MedicalRecord: own(Create, View, Update),
		Message:       own(crud...),
		Department:    all(View),
	},
	role.Nurse: {
		Appointment:   all(View),
		Patient:       all(View),
		Doctor:        all(View),
		Prescription:  all(View),
		MedicalRecord: all(View),
		Message:       own(crud...),
		Department:    all(View),
	},
	role.Receptionist: {
		Appointment: all(Create, View),
		Patient:     all(View),
		Doctor:      all(View),
		Invoice:     all(Create, View, Update),
		Message:     own(crud...),
		Department:  all(View),
	},
	role.Patient: {
		Appointment:   own(crud...),
		Patient:       own(View, Update),
		Doctor:        all(View),
		Prescription:  own(View),
		Invoice:       own(View),
		MedicalRecord: own(View),
		Message:       own(crud...),
		Department:    all(View),
	},
}

// Allowed reports whether the role may perform the action on any resource
// of the type.
func Allowed(r role.Role, res Resource, act Action) bool {
	return Default.Scope(r, res, act) != ScopeNone
}
