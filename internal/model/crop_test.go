package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCrop(t *testing.T) {
	tests := []struct {
		in   string
		want Crop
		ok   bool
	}{
		{"rice", CropRice, true},
		{"  Wheat ", CropWheat, true},
		{"SUGARCANE", CropSugarcane, true},
		{"banana", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCrop(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSoilType(t *testing.T) {
	assert.Equal(t, SoilBlack, ParseSoilType("Black"))
	assert.Equal(t, SoilAlluvial, ParseSoilType(" alluvial "))
	assert.Equal(t, SoilUnknown, ParseSoilType("peat"))
	assert.Equal(t, SoilUnknown, ParseSoilType(""))
}

func TestSnapshotReadings(t *testing.T) {
	r := SnapshotReadings(NeutralSnapshot())
	assert.Equal(t, 6.8, r.PH)
	assert.Equal(t, 90.0, r.Nitrogen)
	assert.Equal(t, 50.0, r.Phosphorus)
	assert.Equal(t, 70.0, r.Potassium)
	assert.Equal(t, 2.5, r.OrganicMatter)
	assert.Equal(t, SoilLoam, r.SoilType)
}
