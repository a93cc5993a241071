package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"HospitalCare/db"
	"HospitalCare/store"
)

// SlotIndex only covers slot-holding appointments, so cancelled bookings
// never block a new one for the same slot.
func SlotIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{
			{Key: "doctor", Value: 1},
			{Key: "appointmentDate", Value: 1},
			{Key: "appointmentTime", Value: 1},
		},
		Options: options.Index().
			SetName(store.SlotIndexName).
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"slotHeld": true}),
	}
}

func init() {
	register(Migration{
		ID:          "003_create_appointment_indexes",
		Description: "unique active slot per doctor, lookup indexes",
		Up: func(ctx context.Context, database *mongo.Database) error {
			return createIndexes(ctx, database.Collection(db.AppointmentCollection),
				SlotIndex(),
				mongo.IndexModel{Keys: bson.D{{Key: "patient", Value: 1}, {Key: "appointmentDate", Value: -1}}},
				mongo.IndexModel{Keys: bson.D{{Key: "doctor", Value: 1}, {Key: "appointmentDate", Value: -1}}},
				mongo.IndexModel{Keys: bson.D{{Key: "appointmentDate", Value: 1}, {Key: "slotHeld", Value: 1}}},
			)
		},
	})
}
