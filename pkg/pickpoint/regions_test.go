package pickpoint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/pickpoint/pkg/pickpoint"
)

func TestMapIsoToRegionName(t *testing.T) {
	tests := map[string]string{
		"RU-MOW":   "Москва",
		"RU-SPE":   "Санкт-Петербург",
		"RU-MOS":   "Московская обл.",
		"RU-TA":    "Татарстан респ.",
		" ru-kda ": "Краснодарский край",
	}
	for code, want := range tests {
		t.Run(code, func(t *testing.T) {
			got, err := pickpoint.MapIsoToRegionName(code)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestMapIsoToRegionName_Unknown(t *testing.T) {
	_, err := pickpoint.MapIsoToRegionName("RU-ZZZ")

	require.Error(t, err)
	assert.ErrorIs(t, err, pickpoint.ErrUnknownRegion)
	var lookupErr *pickpoint.LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, "RU-ZZZ", lookupErr.Code)
}
