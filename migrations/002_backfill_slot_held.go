package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"HospitalCare/db"
	"HospitalCare/models"
)

// Appointments written before slotHeld existed get it derived from status.
func init() {
	register(Migration{
		ID:          "002_backfill_slot_held",
		Description: "derive slotHeld from status on older appointments",
		Up: func(ctx context.Context, database *mongo.Database) error {
			coll := database.Collection(db.AppointmentCollection)
			_, err := coll.UpdateMany(ctx,
				bson.M{"slotHeld": bson.M{"$exists": false}, "status": bson.M{"$in": models.ActiveAppointmentStatuses}},
				bson.M{"$set": bson.M{"slotHeld": true}},
			)
			if err != nil {
				return err
			}
			_, err = coll.UpdateMany(ctx,
				bson.M{"slotHeld": bson.M{"$exists": false}},
				bson.M{"$set": bson.M{"slotHeld": false}},
			)
			return err
		},
	})
}
