package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeInput(t *testing.T, body string) DeveloperInput {
	t.Helper()
	var in DeveloperInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in
}

func TestNormalizeTechStack(t *testing.T) {
	got, err := NormalizeTechStack(TechStackText("a, b, ,b"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "b"}, got)

	got, err = NormalizeTechStack(TechStackList(" go ", "", "  ", "rust", "go"))
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "rust", "go"}, got)

	got, err = NormalizeTechStack(TechStackInput{})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = NormalizeTechStack(TechStackText(" , ,"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTechStackInputShapes(t *testing.T) {
	cases := []struct {
		body    string
		want    []string
		wantErr bool
	}{
		{`{"techStack":["react"," node "]}`, []string{"react", "node"}, false},
		{`{"techStack":"react,node"}`, []string{"react", "node"}, false},
		{`{"techStack":[]}`, []string{}, false},
		{`{}`, []string{}, false},
		{`{"techStack":null}`, []string{}, false},
		{`{"techStack":42}`, nil, true},
		{`{"techStack":{"a":1}}`, nil, true},
		{`{"techStack":["go",1]}`, nil, true},
	}
	for _, tc := range cases {
		in := decodeInput(t, tc.body)
		got, err := NormalizeTechStack(in.TechStack)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrTechStackShape, tc.body)
			continue
		}
		require.NoError(t, err, tc.body)
		assert.Equal(t, tc.want, got, tc.body)
	}
}

func TestTechStackInputMarshal(t *testing.T) {
	b, err := json.Marshal(TechStackText("go, rust"))
	require.NoError(t, err)
	assert.JSONEq(t, `"go, rust"`, string(b))

	b, err = json.Marshal(TechStackList("go"))
	require.NoError(t, err)
	assert.JSONEq(t, `["go"]`, string(b))
}

func TestValidateDeveloper_OK(t *testing.T) {
	in := decodeInput(t, `{"name":" Ada ","role":"Backend","techStack":"go, rust","experience":5,
		"description":"  hi ","photo":"https://example.com/a.png","joiningDate":"2024-03-01"}`)
	d, errs := ValidateDeveloper(in)
	require.Empty(t, errs)
	assert.Equal(t, "Ada", d.Name)
	assert.Equal(t, RoleBackend, d.Role)
	assert.Equal(t, []string{"go", "rust"}, d.TechStack)
	assert.Equal(t, 5.0, d.Experience)
	assert.Equal(t, "hi", d.Description)
	require.NotNil(t, d.JoiningDate)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *d.JoiningDate)
}

func TestValidateDeveloper_AggregatesAllViolations(t *testing.T) {
	in := decodeInput(t, `{"name":"A","role":"Designer","techStack":" , ","experience":51,
		"description":"`+strings.Repeat("x", MaxDescriptionLen+1)+`","photo":"not a url","joiningDate":"yesterday"}`)
	_, errs := ValidateDeveloper(in)
	assert.Equal(t, []string{
		"Name must be at least 2 characters.",
		"Role must be one of Frontend, Backend, Full-Stack.",
		"At least one tech is required in techStack.",
		"Experience cannot exceed 50 years.",
		"Description cannot exceed 1000 characters.",
		"Photo must be a valid URL.",
		"Joining date is not valid.",
	}, errs)
}

func TestValidateDeveloper_ExperienceBounds(t *testing.T) {
	base := DeveloperInput{Name: "Ada", Role: "Frontend", TechStack: TechStackList("js")}
	for _, v := range []float64{0, 50, 12.5} {
		in := base
		in.Experience = Number(v)
		_, errs := ValidateDeveloper(in)
		assert.Empty(t, errs, v)
	}
	for _, v := range []float64{-0.5, -1, 50.01, 100} {
		in := base
		in.Experience = Number(v)
		_, errs := ValidateDeveloper(in)
		assert.Len(t, errs, 1, v)
	}

	in := base
	_, errs := ValidateDeveloper(in)
	assert.Equal(t, []string{"Experience is required."}, errs)
}

func TestValidateDeveloper_LengthLimits(t *testing.T) {
	ok := DeveloperInput{
		Name:       strings.Repeat("é", MaxNameLen),
		Role:       "Backend",
		TechStack:  TechStackList(strings.Repeat("ü", MaxTechLen)),
		Experience: Number(1),
	}
	_, errs := ValidateDeveloper(ok)
	assert.Empty(t, errs)

	long := ok
	long.Name = strings.Repeat("é", MaxNameLen+1)
	long.TechStack = TechStackList("go", strings.Repeat("ü", MaxTechLen+1), strings.Repeat("x", MaxTechLen+1))
	_, errs = ValidateDeveloper(long)
	assert.Equal(t, []string{
		"Name cannot exceed 255 characters.",
		"Each tech in techStack cannot exceed 255 characters.",
	}, errs)
}

func TestNumberInput(t *testing.T) {
	in := decodeInput(t, `{"experience":"7"}`)
	v, ok := in.Experience.Value()
	assert.True(t, ok)
	assert.Equal(t, 7.0, v)

	in = decodeInput(t, `{"experience":"seven"}`)
	assert.True(t, in.Experience.Invalid())

	in = decodeInput(t, `{"experience":true}`)
	assert.True(t, in.Experience.Invalid())

	in = decodeInput(t, `{"experience":""}`)
	assert.False(t, in.Experience.IsSet())
}

func TestDateInput(t *testing.T) {
	in := decodeInput(t, `{"joiningDate":"2023-05-06T10:00:00.000Z"}`)
	v, ok := in.JoiningDate.Value()
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 5, 6, 10, 0, 0, 0, time.UTC), v)

	in = decodeInput(t, `{"joiningDate":""}`)
	assert.False(t, in.JoiningDate.IsSet())

	in = decodeInput(t, `{"joiningDate":12}`)
	assert.True(t, in.JoiningDate.Invalid())
}

func TestDeveloperJSONCarriesLegacyID(t *testing.T) {
	b, err := json.Marshal(Developer{ID: "abc", Name: "Ada", Role: RoleBackend, TechStack: []string{"go"}})
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "abc", m["id"])
	assert.Equal(t, "abc", m["_id"])
	assert.Equal(t, "Backend", m["role"])

	var back Developer
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, "abc", back.ID)
}
