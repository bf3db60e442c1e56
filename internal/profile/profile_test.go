package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func agePtr(n int) *int { return &n }

func TestMerge_FragmentWinsForScalarFields(t *testing.T) {
	existing := Profile{Gender: GenderMale, Location: "Tier 2"}
	fragment := Partial{Gender: GenderFemale, Location: "Tier 1"}

	merged := Merge(existing, fragment)

	assert.Equal(t, GenderFemale, merged.Gender)
	assert.Equal(t, "Tier 1", merged.Location)
}

func TestMerge_KeepsExistingWhenFragmentUnset(t *testing.T) {
	existing := Profile{Gender: GenderMale, Location: "Tier 2"}

	merged := Merge(existing, Partial{})

	assert.Equal(t, existing, merged)
}

func TestMerge_EmptyFragmentIsNoOp(t *testing.T) {
	existing := Profile{
		Gender:   GenderMale,
		Location: "Tier 1",
		Members:  []Member{{Relation: RelationSelf, Age: agePtr(40)}},
	}

	merged := Merge(existing, Partial{})

	assert.Equal(t, existing.Gender, merged.Gender)
	assert.Equal(t, existing.Location, merged.Location)
	assert.Equal(t, existing.Members, merged.Members)
}

func TestMerge_UpdatesExistingMemberAge(t *testing.T) {
	existing := Profile{Members: []Member{{Relation: RelationSelf, Age: agePtr(30)}}}
	fragment := Partial{Members: []Member{{Relation: RelationSelf, Age: agePtr(31)}}}

	merged := Merge(existing, fragment)

	require.Len(t, merged.Members, 1)
	assert.Equal(t, 31, *merged.Members[0].Age)
}

func TestMerge_NilFragmentAgeKeepsExistingAge(t *testing.T) {
	existing := Profile{Members: []Member{{Relation: "wife", Age: agePtr(28)}}}
	fragment := Partial{Members: []Member{{Relation: "wife"}}}

	merged := Merge(existing, fragment)

	require.Len(t, merged.Members, 1)
	require.NotNil(t, merged.Members[0].Age)
	assert.Equal(t, 28, *merged.Members[0].Age)
}

func TestMerge_AppendsUnknownRelation(t *testing.T) {
	existing := Profile{Members: []Member{{Relation: RelationSelf, Age: agePtr(40)}}}
	fragment := Partial{Members: []Member{{Relation: "son", Age: agePtr(8)}}}

	merged := Merge(existing, fragment)

	require.Len(t, merged.Members, 2)
	assert.Equal(t, "son", merged.Members[1].Relation)
}

func TestMerge_Idempotent(t *testing.T) {
	existing := Profile{
		Gender:  GenderMale,
		Members: []Member{{Relation: RelationSelf, Age: agePtr(40)}},
	}
	fragment := Partial{
		Location: "Tier 1",
		Members:  []Member{{Relation: "wife", Age: agePtr(35)}},
	}

	once := Merge(existing, fragment)
	twice := Merge(once, fragment)

	assert.Equal(t, once, twice)
}

func TestMerge_MembersNeverShrink(t *testing.T) {
	existing := Profile{Members: []Member{
		{Relation: RelationSelf, Age: agePtr(40)},
		{Relation: "wife", Age: agePtr(35)},
	}}

	fragments := []Partial{
		{},
		{Members: []Member{{Relation: RelationSelf}}},
		{Members: []Member{{Relation: "son", Age: agePtr(5)}}},
		{Gender: GenderMale},
	}

	p := existing
	prev := len(p.Members)
	for _, f := range fragments {
		p = Merge(p, f)
		assert.GreaterOrEqual(t, len(p.Members), prev)
		prev = len(p.Members)
	}
}

func TestMerge_DoesNotMutateExisting(t *testing.T) {
	existing := Profile{Members: []Member{{Relation: RelationSelf, Age: agePtr(30)}}}
	fragment := Partial{Members: []Member{{Relation: RelationSelf, Age: agePtr(50)}}}

	_ = Merge(existing, fragment)

	assert.Equal(t, 30, *existing.Members[0].Age)
}

func TestIsComplete_BoundaryAge(t *testing.T) {
	base := Profile{Gender: GenderFemale, Location: "Tier 1"}

	adult := base
	adult.Members = []Member{{Relation: RelationSelf, Age: agePtr(18)}}
	assert.True(t, IsComplete(adult), "age 18 must satisfy completeness")

	minor := base
	minor.Members = []Member{{Relation: RelationSelf, Age: agePtr(17)}}
	assert.False(t, IsComplete(minor))
}

func TestIsComplete_RequiresAllFields(t *testing.T) {
	full := Profile{
		Gender:   GenderMale,
		Location: "Tier 1",
		Members:  []Member{{Relation: RelationSelf, Age: agePtr(40)}},
	}
	require.True(t, IsComplete(full))

	noGender := full
	noGender.Gender = ""
	assert.False(t, IsComplete(noGender))

	noLocation := full
	noLocation.Location = ""
	assert.False(t, IsComplete(noLocation))

	noSelf := full
	noSelf.Members = []Member{{Relation: "wife", Age: agePtr(40)}}
	assert.False(t, IsComplete(noSelf))

	nilAge := full
	nilAge.Members = []Member{{Relation: RelationSelf}}
	assert.False(t, IsComplete(nilAge), "a self member with unknown age is incomplete")
}

func TestMissingFields(t *testing.T) {
	assert.Equal(t, []string{"age", "gender", "location"}, MissingFields(Profile{}))

	p := Profile{
		Gender:  GenderMale,
		Members: []Member{{Relation: RelationSelf, Age: agePtr(40)}},
	}
	assert.Equal(t, []string{"location"}, MissingFields(p))

	p.Location = "Tier 2"
	assert.Empty(t, MissingFields(p))
}
