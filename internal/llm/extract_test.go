package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyProfile() Profile {
	return Profile{
		Skills:         []string{},
		Experience:     []Experience{},
		Education:      []Education{},
		Certifications: []string{},
		Projects:       []string{},
		ATSKeywords:    []string{},
	}
}

func TestExtractDirectJSON(t *testing.T) {
	profile, err := Extract(`{"name":"Jane"}`)
	require.NoError(t, err)

	want := emptyProfile()
	want.Name = "Jane"
	assert.Equal(t, want, profile)
}

func TestExtractSalvagesJSONFromSurroundingText(t *testing.T) {
	profile, err := Extract(`Here is the result: {"name":"Jane"} Thanks!`)
	require.NoError(t, err)

	want := emptyProfile()
	want.Name = "Jane"
	assert.Equal(t, want, profile)
}

func TestExtractStripsMarkdownFences(t *testing.T) {
	raw := "```json\n{\"name\":\"Jane\",\"skills\":[\"Go\"]}\n```"
	profile, err := Extract(raw)
	require.NoError(t, err)
	assert.Equal(t, "Jane", profile.Name)
	assert.Equal(t, []string{"Go"}, profile.Skills)
}

func TestExtractFullRecord(t *testing.T) {
	raw := `{
		"name": "Jane Doe",
		"email": "jane@example.com",
		"skills": ["Go", "Postgres"],
		"experience": [
			{
				"job_title": "Backend Engineer",
				"company": "ABC Corp",
				"start_date": "2020",
				"end_date": "Present",
				"description": ["Built queue consumers"]
			}
		],
		"education": [
			{"degree": "B.S. Computer Science", "school": "Texas State", "year": "2018"}
		]
	}`
	profile, err := Extract(raw)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", profile.Name)
	assert.Equal(t, "jane@example.com", profile.Email)
	require.Len(t, profile.Experience, 1)
	assert.Equal(t, "Backend Engineer", profile.Experience[0].JobTitle)
	assert.Equal(t, []string{"Built queue consumers"}, profile.Experience[0].Description)
	require.Len(t, profile.Education, 1)
	assert.Equal(t, "B.S. Computer Science", profile.Education[0].Degree)
	// Omitted fields stay at empty, never missing.
	assert.Equal(t, "", profile.Phone)
	assert.Equal(t, []string{}, profile.Certifications)
	assert.Equal(t, []string{}, profile.Projects)
	assert.Equal(t, []string{}, profile.ATSKeywords)
}

func TestExtractNoJSON(t *testing.T) {
	_, err := Extract("no json here")
	require.ErrorIs(t, err, ErrNoJSONFound)
}

func TestExtractUnparseableBraceSpan(t *testing.T) {
	_, err := Extract("opening { but never closed properly } with junk {{{")
	require.ErrorIs(t, err, ErrNoJSONFound)
}

func TestExtractIsIdempotent(t *testing.T) {
	raw := `Sure! {"name":"Jane","skills":["Go"]}`
	first, err := Extract(raw)
	require.NoError(t, err)
	second, err := Extract(raw)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
