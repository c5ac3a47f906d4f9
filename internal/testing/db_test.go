package testing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fleetcost/internal/domain"
)

func TestNewTestDB_AppliesSchema(t *testing.T) {
	db, cleanup := NewTestDB(t, "catalog")
	defer cleanup()

	var n int
	require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM vehicles").Scan(&n))
	assert.Equal(t, 0, n)

	cleanup()
	cleanup()
}

func TestNewTestDBWithSchema(t *testing.T) {
	db, cleanup := NewTestDBWithSchema(t, "scratch", "CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)")
	defer cleanup()

	_, err := db.Conn().Exec("INSERT INTO notes (body) VALUES ('x')")
	assert.NoError(t, err)
}

func TestVehicleFixturesAreValid(t *testing.T) {
	for _, v := range NewVehicleFixtures() {
		assert.NoError(t, v.Validate(), v.ID)
	}
}

func TestMockVehicleLookup(t *testing.T) {
	m := NewMockVehicleLookup(NewVehicleFixtures()...)

	list := m.List()
	require.Len(t, list, 3)
	assert.Equal(t, "TBEV1", list[0].ID)

	_, err := m.Get("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	boom := errors.New("boom")
	m.SetError(boom)
	_, err = m.Get("TBEV1")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, m.Gets())
}
