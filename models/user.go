package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"HospitalCare/role"
)

type UserStatus string

const (
	UserActive    UserStatus = "Active"
	UserSuspended UserStatus = "Suspended"
)

func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserSuspended
}

type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password"`
	Phone        string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Role         role.Role          `json:"role" bson:"role"`
	Active       bool               `json:"active" bson:"active"`
	Status       UserStatus         `json:"status" bson:"status"`
	LastLogin    *time.Time         `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CanLogin is false for deactivated or suspended accounts.
func (u *User) CanLogin() bool {
	return u.Active && u.Status != UserSuspended
}

// SetStatus keeps the active flag and the status label in step.
func (u *User) SetStatus(s UserStatus) {
	u.Status = s
	u.Active = s == UserActive
}

type UserSummary struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Phone string             `json:"phone,omitempty"`
}

func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}
