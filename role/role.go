package role

type Role string

const (
	Admin        Role = "admin"
	Doctor       Role = "doctor"
	Nurse        Role = "nurse"
	Receptionist Role = "receptionist"
	Patient      Role = "patient"
)

var All = []Role{Admin, Doctor, Nurse, Receptionist, Patient}

func (r Role) Valid() bool {
	for _, v := range All {
		if v == r {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// SelfRegistrable reports whether the public registration endpoint may
// create an account with this role.
func (r Role) SelfRegistrable() bool {
	return r.Valid() && r != Admin
}
