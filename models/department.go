package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Department struct {
	ID               primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name             string              `json:"name" bson:"name"`
	Description      string              `json:"description,omitempty" bson:"description,omitempty"`
	HeadOfDepartment *primitive.ObjectID `json:"headOfDepartment,omitempty" bson:"headOfDepartment,omitempty"`
	Services         []string            `json:"services" bson:"services"`
	Facilities       []string            `json:"facilities" bson:"facilities"`
	ContactNumber    string              `json:"contactNumber,omitempty" bson:"contactNumber,omitempty"`
	Location         string              `json:"location,omitempty" bson:"location,omitempty"`
	Active           bool                `json:"active" bson:"active"`
	CreatedAt        time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt" bson:"updatedAt"`
}
