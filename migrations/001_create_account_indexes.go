package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"HospitalCare/db"
)

func init() {
	register(Migration{
		ID:          "001_create_account_indexes",
		Description: "unique email, one profile per user, unique license number",
		Up: func(ctx context.Context, database *mongo.Database) error {
			err := createIndexes(ctx, database.Collection(db.UserCollection),
				mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
				mongo.IndexModel{Keys: bson.D{{Key: "role", Value: 1}}},
			)
			if err != nil {
				return err
			}
			err = createIndexes(ctx, database.Collection(db.DoctorCollection),
				mongo.IndexModel{Keys: bson.D{{Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
				mongo.IndexModel{Keys: bson.D{{Key: "licenseNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
				mongo.IndexModel{Keys: bson.D{{Key: "department", Value: 1}, {Key: "specialization", Value: 1}}},
			)
			if err != nil {
				return err
			}
			return createIndexes(ctx, database.Collection(db.PatientCollection),
				mongo.IndexModel{Keys: bson.D{{Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
			)
		},
	})
}
