package migrations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"HospitalCare/db"
)

type Migration struct {
	ID          string
	Description string
	Up          func(ctx context.Context, database *mongo.Database) error
}

type appliedMigration struct {
	ID        string    `bson:"_id"`
	AppliedAt time.Time `bson:"appliedAt"`
}

var registry []Migration

func register(m Migration) {
	registry = append(registry, m)
}

// All returns the registered migrations ordered by id.
func All() []Migration {
	out := make([]Migration, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

/*
* Load the ids already recorded in the migrations collection
* Apply every pending migration in id order
* Record each one right after it succeeds
* Stop at the first failure
 */
func Run(ctx context.Context, m *db.Mongo, log *zap.Logger) (int, error) {
	coll := m.Collection(db.MigrationCollection)
	done, err := db.FindAll[appliedMigration](ctx, coll, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("loading applied migrations: %w", err)
	}
	applied := make(map[string]bool, len(done))
	for _, d := range done {
		applied[d.ID] = true
	}

	count := 0
	for _, mig := range All() {
		if applied[mig.ID] {
			continue
		}
		log.Info("applying migration", zap.String("id", mig.ID), zap.String("description", mig.Description))
		if err := mig.Up(ctx, m.DB); err != nil {
			log.Error("migration failed", zap.String("id", mig.ID), zap.Error(err))
			return count, fmt.Errorf("migration %s: %w", mig.ID, err)
		}
		if _, err := coll.InsertOne(ctx, appliedMigration{ID: mig.ID, AppliedAt: time.Now().UTC()}); err != nil {
			if !mongo.IsDuplicateKeyError(err) {
				return count, fmt.Errorf("recording migration %s: %w", mig.ID, err)
			}
		}
		count++
	}
	return count, nil
}

var errEmptyIndexes = errors.New("no indexes given")

func createIndexes(ctx context.Context, coll *mongo.Collection, models ...mongo.IndexModel) error {
	if len(models) == 0 {
		return errEmptyIndexes
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}
