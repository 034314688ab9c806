package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestV1ColumnNames(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{name: "magnitude", got: V1.Mag(0), expected: "MAG00000000"},
		{name: "magnitude error", got: V1.EMag(12), expected: "EMAG00000012"},
		{name: "sky magnitude", got: V1.SkyMag(3), expected: "SKYMAG00000003"},
		{name: "sky magnitude error", got: V1.ESkyMag(3), expected: "ESKYMAG00000003"},
		{name: "x", got: V1.X(7), expected: "X00000007"},
		{name: "y", got: V1.Y(7), expected: "Y00000007"},
		{name: "fwhm", got: V1.FWHM(123456), expected: "FWHM00123456"},
		{name: "differential magnitude", got: V1.DMag(2), expected: "DMAG000002"},
		{name: "differential magnitude error", got: V1.EDMag(2), expected: "EDMAG000002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}

func TestLookup(t *testing.T) {
	s, err := Lookup(1)
	require.NoError(t, err)
	assert.Equal(t, V1, s)

	_, err = Lookup(99)
	assert.ErrorIs(t, err, ErrUnknownSchema)
}

func TestDiffStarCount(t *testing.T) {
	assert.Equal(t, 3, DiffStarCount(7))
	assert.Equal(t, 0, DiffStarCount(1))
	assert.Equal(t, 0, DiffStarCount(0))
}
