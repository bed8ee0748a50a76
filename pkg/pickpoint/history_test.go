package pickpoint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHistory_KeepsFirstOccurrence(t *testing.T) {
	h := NewHistory([]State{
		{Code: 1, Message: "created"},
		{Code: 2, Message: "accepted"},
		{Code: 1, Message: "created again"},
		{Code: 2, Message: "accepted again"},
	})

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, []int{1, 2}, h.Codes())

	s, ok := h.ByCode(1)
	require.True(t, ok)
	assert.Equal(t, "created", s.Message)

	_, ok = h.ByCode(3)
	assert.False(t, ok)
}

func TestHistory_LastIsPositional(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(48 * time.Hour)

	h := NewHistory([]State{
		{Code: 5, Time: &late},
		{Code: 3, Time: &early},
	})

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, 3, last.Code)

	_, ok = NewHistory(nil).Last()
	assert.False(t, ok)
}

func TestHistory_StatesIsACopy(t *testing.T) {
	h := NewHistory([]State{{Code: 1}})
	states := h.States()
	states[0].Code = 99

	assert.Equal(t, []int{1}, h.Codes())
}

func TestParseStateTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-03-01T10:15:00", time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC), true},
		{"01.03.2024 10:15:00", time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC), true},
		{"2024-03-01 10:15:00", time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC), true},
		{"/Date(1709288100000+0300)/", time.UnixMilli(1709288100000).UTC(), true},
		{"/Date(1709288100000)/", time.UnixMilli(1709288100000).UTC(), true},
		{"/Date()/", time.Time{}, false},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := parseStateTime(tt.in)
			if !tt.ok {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %v", got)
		})
	}
}

func TestStateFromWire_FallsBackToStateText(t *testing.T) {
	s := stateFromWire(WireState{State: 111, StateText: "Delivered"})
	assert.Equal(t, 111, s.Code)
	assert.Equal(t, "Delivered", s.Message)
	assert.Nil(t, s.Time)
}
