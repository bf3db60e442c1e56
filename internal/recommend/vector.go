package recommend

import (
	"strings"

	"insurance-ai-advisor/internal/profile"
)

// Feature indexes one flag in the plan table's lookup key.
type Feature int

const (
	FeatureMaleBelow35 Feature = iota
	FeatureFemaleBelow35
	FeatureMale35To45
	FeatureFemale35To45
	FeatureMale46To60
	FeatureFemale46To60
	FeatureMaleAbove60
	FeatureFemaleAbove60
	FeatureCityTier1
	FeatureCityTier2
	FeatureCityTier3
	FeatureFamilySelf
	FeatureFamilySelfSpouse
	FeatureFamilySelfChildren
	FeatureFamilySelfParents
	FeatureChronicCondition
	FeatureCriticalIllnessHistory

	numFeatures
)

// featureNames are the plan table column names, in vector order. The table
// schema and this list are versioned together: adding or removing a flag
// requires touching both.
var featureNames = [numFeatures]string{
	"male_below_35",
	"female_below_35",
	"male_35_to_45",
	"female_35_to_45",
	"male_46_60",
	"female_46_60",
	"male_above_60",
	"female_above_60",
	"city_tier_1",
	"city_tier_2",
	"city_tier_3",
	"family_self",
	"family_self_spouse",
	"family_self_children",
	"family_self_parents",
	"chronic_condition",
	"critical_illness_history",
}

// FeatureVector is the fixed-width categorical encoding of a complete
// profile. It is comparable, so it serves directly as the plan table's map
// key; matching is exact equality over the full flag set.
type FeatureVector [numFeatures]bool

// Active returns the names of the set flags, in vector order. Used for
// logging and for the attribute summary shown alongside a recommendation.
func (v FeatureVector) Active() []string {
	var names []string
	for i, on := range v {
		if on {
			names = append(names, featureNames[i])
		}
	}
	return names
}

// IsZero reports whether no flag is set, the degenerate encoding of a
// profile the vectorizer could not place in any bucket.
func (v FeatureVector) IsZero() bool {
	return v == FeatureVector{}
}

// Vectorize projects a profile into its lookup key. It is total: a profile
// missing a usable self age, gender or recognizable city tier simply leaves
// the corresponding flags unset, and the resolver treats the resulting
// vector as a lookup miss. The vector is recomputed on every call, never
// cached across profile mutations.
func Vectorize(p profile.Profile) FeatureVector {
	var v FeatureVector

	// Age bracket for the self member, split by gender. At most one of the
	// eight cells fires.
	for _, m := range p.Members {
		if m.Relation != profile.RelationSelf || m.Age == nil {
			continue
		}
		age := *m.Age
		switch p.Gender {
		case profile.GenderMale:
			switch {
			case age < 35:
				v[FeatureMaleBelow35] = true
			case age <= 45:
				v[FeatureMale35To45] = true
			case age <= 60:
				v[FeatureMale46To60] = true
			default:
				v[FeatureMaleAbove60] = true
			}
		case profile.GenderFemale:
			switch {
			case age < 35:
				v[FeatureFemaleBelow35] = true
			case age <= 45:
				v[FeatureFemale35To45] = true
			case age <= 60:
				v[FeatureFemale46To60] = true
			default:
				v[FeatureFemaleAbove60] = true
			}
		}
	}

	loc := strings.ToLower(p.Location)
	switch {
	case strings.Contains(loc, "tier 1"):
		v[FeatureCityTier1] = true
	case strings.Contains(loc, "tier 2"):
		v[FeatureCityTier2] = true
	case strings.Contains(loc, "tier 3"):
		v[FeatureCityTier3] = true
	}

	// Family structure by first-match priority over the relation list. The
	// ordering is a deliberate tie-break policy: a spouse outweighs
	// children, children outweigh parents.
	relations := make([]string, 0, len(p.Members))
	for _, m := range p.Members {
		relations = append(relations, m.Relation)
	}
	switch {
	case len(relations) == 1 && relations[0] == profile.RelationSelf:
		v[FeatureFamilySelf] = true
	case containsAny(relations, "wife", "husband"):
		v[FeatureFamilySelfSpouse] = true
	case containsAny(relations, "son", "daughter", "child"):
		v[FeatureFamilySelfChildren] = true
	case containsAny(relations, "father", "mother", "parent"):
		v[FeatureFamilySelfParents] = true
	}

	// Coarse binary health signal, not a per-condition mapping.
	if len(p.PEDConditions) > 0 {
		v[FeatureChronicCondition] = true
		v[FeatureCriticalIllnessHistory] = true
	}

	return v
}

func containsAny(values []string, wanted ...string) bool {
	for _, v := range values {
		for _, w := range wanted {
			if v == w {
				return true
			}
		}
	}
	return false
}
