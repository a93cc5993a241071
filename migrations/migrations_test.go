package migrations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"HospitalCare/store"
)

func TestAllIsOrdered(t *testing.T) {
	all := All()
	require.Len(t, all, 4)

	seen := map[string]bool{}
	for i, m := range all {
		assert.False(t, seen[m.ID], m.ID)
		seen[m.ID] = true
		assert.NotEmpty(t, m.Description, m.ID)
		assert.NotNil(t, m.Up, m.ID)
		if i > 0 {
			assert.Less(t, all[i-1].ID, m.ID)
		}
	}
	assert.Equal(t, "001_create_account_indexes", all[0].ID)
	assert.Equal(t, "004_create_record_indexes", all[3].ID)
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].ID = "zzz"
	assert.Equal(t, "001_create_account_indexes", All()[0].ID)
}

func TestSlotIndexIsPartialAndUnique(t *testing.T) {
	idx := SlotIndex()
	require.NotNil(t, idx.Options)
	require.NotNil(t, idx.Options.Unique)
	assert.True(t, *idx.Options.Unique)
	assert.Equal(t, store.SlotIndexName, *idx.Options.Name)
	assert.Equal(t, bson.M{"slotHeld": true}, idx.Options.PartialFilterExpression)
	assert.Len(t, idx.Keys, 3)
}

func TestCreateIndexesNeedsModels(t *testing.T) {
	assert.ErrorIs(t, createIndexes(context.Background(), nil), errEmptyIndexes)
}
