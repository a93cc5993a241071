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
		ID:          "004_create_record_indexes",
		Description: "unique invoice number and department name, lookup indexes",
		Up: func(ctx context.Context, database *mongo.Database) error {
			unique := options.Index().SetUnique(true)
			steps := []struct {
				coll   string
				models []mongo.IndexModel
			}{
				{db.InvoiceCollection, []mongo.IndexModel{
					{Keys: bson.D{{Key: "invoiceNumber", Value: 1}}, Options: unique},
					{Keys: bson.D{{Key: "patient", Value: 1}, {Key: "createdAt", Value: -1}}},
					{Keys: bson.D{{Key: "paymentStatus", Value: 1}, {Key: "dueDate", Value: 1}}},
				}},
				{db.DepartmentCollection, []mongo.IndexModel{
					{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
				}},
				{db.PrescriptionCollection, []mongo.IndexModel{
					{Keys: bson.D{{Key: "patient", Value: 1}, {Key: "issuedDate", Value: -1}}},
					{Keys: bson.D{{Key: "doctor", Value: 1}, {Key: "issuedDate", Value: -1}}},
				}},
				{db.MedicalRecordCollection, []mongo.IndexModel{
					{Keys: bson.D{{Key: "patient", Value: 1}, {Key: "visitDate", Value: -1}}},
					{Keys: bson.D{{Key: "doctor", Value: 1}, {Key: "visitDate", Value: -1}}},
				}},
				{db.MessageCollection, []mongo.IndexModel{
					{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "createdAt", Value: -1}}},
					{Keys: bson.D{{Key: "sender", Value: 1}, {Key: "createdAt", Value: -1}}},
				}},
			}
			for _, step := range steps {
				if err := createIndexes(ctx, database.Collection(step.coll), step.models...); err != nil {
					return err
				}
			}
			return nil
		},
	})
}
