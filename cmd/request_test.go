package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/agronomy-cli/internal/model"
)

func TestNumber_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{"number", `6.5`, 6.5, false},
		{"integer", `40`, 40, false},
		{"string", `"5.8"`, 5.8, false},
		{"padded string", `" 12 "`, 12, false},
		{"word", `"high"`, 0, true},
		{"bool", `true`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n number
			err := json.Unmarshal([]byte(tt.in), &n)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, float64(n))
		})
	}
}

func TestSoilInput_Defaults(t *testing.T) {
	var in soilInput
	require.NoError(t, json.Unmarshal([]byte(`{"crop_type":"rice","nitrogen":null,"potassium":"35","soil_type":"Sandy"}`), &in))

	r := in.readings()
	assert.Equal(t, model.Readings{
		PH:            7.0,
		Nitrogen:      0,
		Phosphorus:    0,
		Potassium:     35,
		OrganicMatter: 2.5,
		Moisture:      50,
		Temperature:   25,
		SoilType:      model.SoilSandy,
	}, r)
}

func TestAdvisoryInput_Coordinates(t *testing.T) {
	var in advisoryInput
	require.NoError(t, json.Unmarshal([]byte(`{"lat":"18.52","lon":73.85}`), &in))
	require.NotNil(t, in.Lat.ptr())
	assert.Equal(t, 18.52, *in.Lat.ptr())
	assert.Equal(t, 73.85, *in.Lon.ptr())

	var empty advisoryInput
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.Nil(t, empty.Lat.ptr())
}
