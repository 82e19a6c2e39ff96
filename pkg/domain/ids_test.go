package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "guardhq/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs".
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseOfficerID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseShiftID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseAlertID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseOfficerID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, OfficerID(valid), id)
	})
}

// TestTypeDistinction documents the compile-time invariant: typed IDs
// prevent cross-entity assignment. If these types become aliases, the
// commented assignments would compile and the invariant is broken.
func TestTypeDistinction(t *testing.T) {
	officerID := OfficerID(uuid.New())
	shiftID := ShiftID(uuid.New())

	// var _ OfficerID = shiftID // compile error
	// var _ ShiftID = officerID // compile error

	assert.NotEqual(t, uuid.UUID(officerID), uuid.UUID(shiftID))
}

func TestIDJSONRoundTrip(t *testing.T) {
	id := NewOfficerID()

	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"`+id.String()+`"`, string(data))

	var decoded OfficerID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded)

	var bad OfficerID
	assert.Error(t, json.Unmarshal([]byte(`"garbage"`), &bad))
}
