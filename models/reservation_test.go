package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestNights(t *testing.T) {
	r := Reservation{
		CheckIn:  time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 3, r.Nights())

	r.CheckOut = time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, r.Nights())
}

func TestAppendNote(t *testing.T) {
	at := time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)

	raw := AppendNote(nil, "early arrival requested", at)
	raw = AppendNote(raw, "extra bed added", at.Add(time.Hour))

	var notes []ReservationNote
	require.NoError(t, json.Unmarshal(raw, &notes))
	require.Len(t, notes, 2)
	assert.Equal(t, "early arrival requested", notes[0].Text)
	assert.Equal(t, "extra bed added", notes[1].Text)
	assert.True(t, notes[1].At.After(notes[0].At))
}

func TestAppendNoteCorruptColumnStartsFresh(t *testing.T) {
	at := time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)

	raw := AppendNote(datatypes.JSON(`{"not":"an array"`), "recovered", at)

	var notes []ReservationNote
	require.NoError(t, json.Unmarshal(raw, &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "recovered", notes[0].Text)
}
