package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-ai-advisor/internal/profile"
)

func TestParsePartial_ValidJSON(t *testing.T) {
	raw := `{"gender": "Male", "location": " Tier 1 ", "members": [{"relation": "Self", "age": 40}, {"relation": "wife", "age": 35}]}`

	fragment, ok := parsePartial(raw)
	require.True(t, ok)

	assert.Equal(t, profile.GenderMale, fragment.Gender)
	assert.Equal(t, "Tier 1", fragment.Location)
	require.Len(t, fragment.Members, 2)
	assert.Equal(t, profile.RelationSelf, fragment.Members[0].Relation)
	assert.Equal(t, 40, *fragment.Members[0].Age)
	assert.Equal(t, "wife", fragment.Members[1].Relation)
}

func TestParsePartial_CodeFencedJSON(t *testing.T) {
	raw := "```json\n{\"gender\": \"female\", \"location\": \"Tier 2\"}\n```"

	fragment, ok := parsePartial(raw)
	require.True(t, ok)
	assert.Equal(t, profile.GenderFemale, fragment.Gender)
	assert.Equal(t, "Tier 2", fragment.Location)
}

func TestParsePartial_InvalidJSON(t *testing.T) {
	for _, raw := range []string{
		"I could not extract anything, sorry!",
		`{"gender": "male"`,
		"",
	} {
		_, ok := parsePartial(raw)
		assert.False(t, ok, "raw %q should not parse", raw)
	}
}

func TestParsePartial_DropsUnknownGender(t *testing.T) {
	fragment, ok := parsePartial(`{"gender": "unknown"}`)
	require.True(t, ok)
	assert.Empty(t, fragment.Gender)
}

func TestParsePartial_NullFieldsAreAbsent(t *testing.T) {
	fragment, ok := parsePartial(`{"gender": null, "location": null, "members": null}`)
	require.True(t, ok)
	assert.Empty(t, fragment.Gender)
	assert.Empty(t, fragment.Location)
	assert.Empty(t, fragment.Members)
}

func TestParsePartial_NegativeAgeDropped(t *testing.T) {
	fragment, ok := parsePartial(`{"members": [{"relation": "self", "age": -3}]}`)
	require.True(t, ok)
	require.Len(t, fragment.Members, 1)
	assert.Nil(t, fragment.Members[0].Age)
}

func TestParsePartial_BlankRelationDefaultsToSelf(t *testing.T) {
	fragment, ok := parsePartial(`{"members": [{"relation": "", "age": 29}]}`)
	require.True(t, ok)
	require.Len(t, fragment.Members, 1)
	assert.Equal(t, profile.RelationSelf, fragment.Members[0].Relation)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
}
