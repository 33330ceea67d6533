package main

import (
	"strings"
	"testing"

	"pha-locator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAgencies(t *testing.T) {
	input := `id,name,address,phone,email,program_type,latitude,longitude
a1,Austin Housing Authority,"100 Congress Ave, Austin, TX 78701",512-555-0100,,Section 8,30.2672,-97.7431
a2,Unmapped Authority,"1 Main St, Albany, New York 12207",,,,,
`
	records, err := parseAgencies(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "a1", first.ID)
	assert.Equal(t, "TX", first.StateCode)
	require.NotNil(t, first.Phone)
	assert.Equal(t, "512-555-0100", *first.Phone)
	assert.Nil(t, first.Email)
	require.NotNil(t, first.ProgramType)
	assert.Equal(t, "Section 8", *first.ProgramType)
	coords, ok := first.Coordinates()
	require.True(t, ok)
	assert.InDelta(t, 30.2672, coords.Lat, 1e-9)
	assert.InDelta(t, -97.7431, coords.Lon, 1e-9)

	second := records[1]
	assert.Equal(t, "NY", second.StateCode)
	_, ok = second.Coordinates()
	assert.False(t, ok)
}

func TestParseAgencies_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   string
	}{
		{
			name:  "missing column",
			input: "name,address\nX,Y\n",
			err:   `missing required column "id"`,
		},
		{
			name:  "half coordinates",
			input: "id,name,latitude,longitude\na1,X,30.1,\n",
			err:   "line 2: latitude and longitude must both be set",
		},
		{
			name:  "bad latitude",
			input: "id,name,latitude,longitude\na1,X,north,1\n",
			err:   "line 2: invalid latitude: north",
		},
		{
			name:  "duplicate id",
			input: "id,name\na1,X\na1,Y\n",
			err:   "line 3: duplicate id a1",
		},
		{
			name:  "empty name",
			input: "id,name\na1,\n",
			err:   "line 2: id and name are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAgencies(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestParsePlaces(t *testing.T) {
	input := `name,type,state_code,latitude,longitude
Austin,City,TX,30.2672,-97.7431
Travis,county,Texas,30.3346,-97.7819
`
	places, err := parsePlaces(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, places, 2)

	assert.Equal(t, models.LocationCity, places[0].Type)
	assert.Equal(t, "TX", places[0].StateCode)
	assert.Equal(t, models.LocationCounty, places[1].Type)
	assert.Equal(t, "TX", places[1].StateCode)

	_, err = parsePlaces(strings.NewReader("name,type,state_code,latitude,longitude\nTexas,state,TX,1,2\n"))
	assert.ErrorContains(t, err, `invalid type "state"`)

	_, err = parsePlaces(strings.NewReader("name,type,state_code,latitude,longitude\nAustin,city,ZZ,1,2\n"))
	assert.ErrorContains(t, err, `invalid state_code "ZZ"`)
}

func TestParseZipcodes(t *testing.T) {
	input := `zip,city,state_code,latitude,longitude
78701,Austin,tx,30.2711,-97.7437
2108,Boston,MA,42.3576,-71.0651
`
	zips, err := parseZipcodes(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, zips, 2)

	assert.Equal(t, "78701", zips[0].Zip)
	assert.Equal(t, "TX", zips[0].StateCode)
	assert.Equal(t, "02108", zips[1].Zip, "leading zeros dropped by spreadsheets are restored")

	_, err = parseZipcodes(strings.NewReader("zip,latitude,longitude\n787011,1,2\n"))
	assert.ErrorContains(t, err, `invalid zip "787011"`)

	_, err = parseZipcodes(strings.NewReader("zip,latitude,longitude\n78701,,\n"))
	assert.ErrorContains(t, err, "latitude and longitude are required")
}

func TestGeom(t *testing.T) {
	lat, lon := 30.5, -97.25
	assert.Equal(t, "SRID=4326;POINT(-97.250000 30.500000)", geom(&lat, &lon))
	assert.Nil(t, geom(nil, &lon))
	assert.Nil(t, nullable(""))
	assert.Equal(t, "TX", nullable("TX"))
}
