package recommend

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPlanCSV = `male_below_35,female_below_35,male_35_to_45,female_35_to_45,male_46_60,female_46_60,male_above_60,female_above_60,city_tier_1,city_tier_2,city_tier_3,family_self,family_self_spouse,family_self_children,family_self_parents,chronic_condition,critical_illness_history,plan_name,score,needs,user_attributes
0,0,0,0,1,0,0,0,0,1,0,1,0,0,0,0,0,Silver Shield,0.80,day_care;no_copay,Male 46-60 in a tier 2 city
0,0,0,0,1,0,0,0,0,1,0,1,0,0,0,0,0,Gold Guard,0.92,high_si;restoration_benefit,Male 46-60 in a tier 2 city
0,0,0,0,1,0,0,0,0,1,0,1,0,0,0,0,0,Value Care,0.80,low_premium,Male 46-60 in a tier 2 city
0,0,0,0,1,0,0,0,0,1,0,1,0,0,0,0,0,Gold Guard,0.75,high_si;wellness_discount,Male 46-60 in a tier 2 city
0,1,0,0,0,0,0,0,1,0,0,1,0,0,0,0,0,Her Essential,0.90,maternity_cover;opd_cover,Female under 35 in a metro
`

func loadTestTable(t *testing.T) *PlanTable {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plans.csv")
	require.NoError(t, os.WriteFile(path, []byte(testPlanCSV), 0o644))

	table, err := LoadPlanTable(path)
	require.NoError(t, err)
	require.Equal(t, 5, table.Len())
	return table
}

func maleTier2Vector() FeatureVector {
	var v FeatureVector
	v[FeatureMale46To60] = true
	v[FeatureCityTier2] = true
	v[FeatureFamilySelf] = true
	return v
}

func TestResolve_RanksByScoreWithStableTies(t *testing.T) {
	r := NewResolver(loadTestTable(t), rand.New(rand.NewSource(1)))

	res := r.Resolve(maleTier2Vector())
	require.False(t, res.Empty())

	// Gold Guard 0.92 first, then the two 0.80 rows in file order, then 0.75.
	want := []ScoredPlan{
		{PlanName: "Gold Guard", Score: 0.92},
		{PlanName: "Silver Shield", Score: 0.80},
		{PlanName: "Value Care", Score: 0.80},
		{PlanName: "Gold Guard", Score: 0.75},
	}
	assert.Equal(t, want, res.Candidates)
}

func TestResolve_MissIsEmptyNotError(t *testing.T) {
	r := NewResolver(loadTestTable(t), rand.New(rand.NewSource(1)))

	// A bucket absent from the table: male 35-45, metro, self only.
	var v FeatureVector
	v[FeatureMale35To45] = true
	v[FeatureCityTier1] = true
	v[FeatureFamilySelf] = true

	res := r.Resolve(v)
	assert.True(t, res.Empty())
	assert.Empty(t, res.TopPlans(3))
	assert.Empty(t, res.RelevantNeeds(nil))
}

func TestResolve_NearMatchVectorStillMisses(t *testing.T) {
	r := NewResolver(loadTestTable(t), rand.New(rand.NewSource(1)))

	// One flag off the stored vector must not match.
	v := maleTier2Vector()
	v[FeatureChronicCondition] = true

	assert.True(t, r.Resolve(v).Empty())
}

func TestTopPlans_DeduplicatesNames(t *testing.T) {
	r := NewResolver(loadTestTable(t), rand.New(rand.NewSource(1)))
	res := r.Resolve(maleTier2Vector())

	top := res.TopPlans(3)
	require.Len(t, top, 3)
	assert.Equal(t, "Gold Guard", top[0].PlanName)
	assert.Equal(t, "Silver Shield", top[1].PlanName)
	assert.Equal(t, "Value Care", top[2].PlanName)
}

func TestRelevantNeeds_SortedUnion(t *testing.T) {
	r := NewResolver(loadTestTable(t), rand.New(rand.NewSource(1)))
	res := r.Resolve(maleTier2Vector())

	needs := res.RelevantNeeds(res.TopPlans(3))
	assert.Equal(t, []string{"day_care", "high_si", "low_premium", "no_copay", "restoration_benefit"}, needs)
}

func TestPresent_FeaturedRowBelongsToBucket(t *testing.T) {
	table := loadTestTable(t)
	r := NewResolver(table, rand.New(rand.NewSource(42)))

	res := r.Resolve(maleTier2Vector())
	bucket := map[string]bool{"Silver Shield": true, "Gold Guard": true, "Value Care": true}

	for i := 0; i < 20; i++ {
		p := r.Present(res, 3)
		assert.True(t, bucket[p.Featured.PlanName], "featured %q not in bucket", p.Featured.PlanName)
		assert.Equal(t, p.Featured.UserAttributes, p.Attributes)
		assert.Len(t, p.Top, 3)
		assert.Len(t, p.Scores, 4)
	}
}

func TestPresent_SamplingDeterministicWithSeed(t *testing.T) {
	table := loadTestTable(t)
	res := NewResolver(table, rand.New(rand.NewSource(7))).Resolve(maleTier2Vector())

	first := NewResolver(table, rand.New(rand.NewSource(7)))
	second := NewResolver(table, rand.New(rand.NewSource(7)))

	for i := 0; i < 10; i++ {
		a := first.Present(res, 3)
		b := second.Present(res, 3)
		assert.Equal(t, a.Featured.PlanName, b.Featured.PlanName)
	}
}

func TestPresent_SingleRowBucket(t *testing.T) {
	r := NewResolver(loadTestTable(t), rand.New(rand.NewSource(1)))

	var v FeatureVector
	v[FeatureFemaleBelow35] = true
	v[FeatureCityTier1] = true
	v[FeatureFamilySelf] = true

	res := r.Resolve(v)
	require.False(t, res.Empty())

	p := r.Present(res, 3)
	assert.Equal(t, "Her Essential", p.Featured.PlanName)
	assert.Len(t, p.Top, 1)
	assert.Equal(t, []string{"maternity_cover", "opd_cover"}, p.Needs)
}

func TestReadPlanTable_RejectsMissingColumns(t *testing.T) {
	_, err := readPlanTable(strings.NewReader("plan_name,score\nFoo,0.5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing feature column")
}

func TestReadPlanTable_RejectsBadScore(t *testing.T) {
	bad := strings.Replace(testPlanCSV, "0.80,day_care", "not-a-number,day_care", 1)
	_, err := readPlanTable(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad score")
}
