package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A partial payload must leave omitted fields nil so updates can distinguish
// "not sent" from "set to empty".
func TestRaceFieldsPartialDecode(t *testing.T) {
	var f RaceFields
	err := json.Unmarshal([]byte(`{"slug":"utmb","name":"UTMB","distanceMiles":106}`), &f)
	require.NoError(t, err)

	assert.Equal(t, "utmb", f.Slug)
	require.NotNil(t, f.Name)
	assert.Equal(t, "UTMB", *f.Name)
	require.NotNil(t, f.DistanceMiles)
	assert.Equal(t, 106.0, *f.DistanceMiles)

	assert.Nil(t, f.Distance)
	assert.Nil(t, f.Location)
	assert.Nil(t, f.Difficulty)
	assert.Empty(t, f.Content)
}

func TestRaceFieldsExplicitEmptyStringIsPresent(t *testing.T) {
	var f RaceFields
	err := json.Unmarshal([]byte(`{"slug":"utmb","description":""}`), &f)
	require.NoError(t, err)

	require.NotNil(t, f.Description)
	assert.Equal(t, "", *f.Description)
}

func clauseColumns(clauses []setClause) []string {
	cols := make([]string, len(clauses))
	for i, sc := range clauses {
		cols[i] = sc.column
	}
	return cols
}

// A patch writes exactly the columns the payload names, so sequential
// single-field updates never clobber each other.
func TestSetClausesWritesOnlyPresentFields(t *testing.T) {
	var f RaceFields
	require.NoError(t, json.Unmarshal([]byte(`{"slug":"utmb","distance":"106 miles"}`), &f))

	clauses := f.setClauses()
	require.Len(t, clauses, 1)
	assert.Equal(t, "distance", clauses[0].column)
	assert.Equal(t, "106 miles", clauses[0].value)

	var g RaceFields
	require.NoError(t, json.Unmarshal([]byte(`{"slug":"utmb","description":"A lap of Mont Blanc."}`), &g))
	assert.Equal(t, []string{"description"}, clauseColumns(g.setClauses()))
}

func TestSetClausesExplicitEmptyStringIsWritten(t *testing.T) {
	var f RaceFields
	require.NoError(t, json.Unmarshal([]byte(`{"slug":"utmb","description":""}`), &f))

	clauses := f.setClauses()
	require.Len(t, clauses, 1)
	assert.Equal(t, "description", clauses[0].column)
	assert.Equal(t, "", clauses[0].value)
}

func TestSetClausesEmptyPayload(t *testing.T) {
	var f RaceFields
	require.NoError(t, json.Unmarshal([]byte(`{"slug":"utmb"}`), &f))
	assert.Empty(t, f.setClauses())
}

func TestSetClausesFullPayload(t *testing.T) {
	var f RaceFields
	payload := `{
		"slug": "utmb",
		"name": "UTMB",
		"distance": "106 miles",
		"distanceMiles": 106,
		"elevationGain": "32,800 ft",
		"elevationGainFt": 32800,
		"location": "Chamonix, France",
		"country": "France",
		"description": "A lap of Mont Blanc.",
		"month": "August",
		"cutoffTime": "46 hours 30 min",
		"difficulty": "Expert",
		"content": {"callout": {}},
		"elevationProfile": [1035, 2537, 1035]
	}`
	require.NoError(t, json.Unmarshal([]byte(payload), &f))

	cols := clauseColumns(f.setClauses())
	assert.ElementsMatch(t, []string{
		"name", "distance", "distance_miles", "elevation_gain",
		"elevation_gain_ft", "location", "country", "description",
		"month", "cutoff_time", "difficulty", "content", "elevation_profile",
	}, cols)
	assert.NotContains(t, cols, "state")
	assert.NotContains(t, cols, "image_url")
	assert.NotContains(t, cols, "slug")
}

func TestOrDefault(t *testing.T) {
	name := "Hardrock 100"
	empty := ""

	assert.Equal(t, "Hardrock 100", orDefault(&name, "fallback"))
	assert.Equal(t, "fallback", orDefault(&empty, "fallback"))
	assert.Equal(t, "fallback", orDefault(nil, "fallback"))
}
