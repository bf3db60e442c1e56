package profile

// Gender values the NLU extractor is allowed to report. Anything else is
// treated as absent at the extraction boundary.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// RelationSelf is the policyholder's own entry in the member list.
const RelationSelf = "self"

// adultAge is the minimum self age for a recommendable profile.
const adultAge = 18

// Member is one insured person in the household. Age is nil until the user
// states it; a member with an unknown age still counts for family-structure
// logic but never satisfies completeness.
type Member struct {
	Relation string `json:"relation"`
	Age      *int   `json:"age"`
}

// Profile is the accumulating household record built up across dialogue
// turns. Empty string fields mean "not collected yet". At most one member
// exists per relation label.
type Profile struct {
	Gender        string   `json:"gender,omitempty"`
	Location      string   `json:"location,omitempty"`
	Members       []Member `json:"members,omitempty"`
	PEDConditions []string `json:"ped_conditions,omitempty"`
}

// Partial is the fragment extracted from a single user message. All fields
// are optional; an all-zero Partial merges as a no-op.
type Partial struct {
	Gender   string   `json:"gender,omitempty"`
	Location string   `json:"location,omitempty"`
	Members  []Member `json:"members,omitempty"`
}

// Merge combines an existing profile with a newly extracted fragment.
// Fragment values win for gender and location when present. Members are
// keyed by relation: a known relation only has its age updated (and only
// when the fragment supplies one), an unknown relation is appended. Merge
// never removes a member; only an explicit reset does that.
func Merge(existing Profile, fragment Partial) Profile {
	merged := existing
	if fragment.Gender != "" {
		merged.Gender = fragment.Gender
	}
	if fragment.Location != "" {
		merged.Location = fragment.Location
	}
	merged.Members = mergeMembers(existing.Members, fragment.Members)
	return merged
}

func mergeMembers(existing, incoming []Member) []Member {
	if len(incoming) == 0 {
		return existing
	}
	out := make([]Member, len(existing))
	copy(out, existing)

	for _, m := range incoming {
		idx := -1
		for i := range out {
			if out[i].Relation == m.Relation {
				idx = i
				break
			}
		}
		if idx >= 0 {
			if m.Age != nil {
				out[idx].Age = m.Age
			}
			continue
		}
		out = append(out, m)
	}
	return out
}

// IsComplete reports whether enough of the profile exists to recommend a
// plan: a self member with a stated age of at least 18, a gender, and a
// location.
func IsComplete(p Profile) bool {
	if p.Gender == "" || p.Location == "" {
		return false
	}
	for _, m := range p.Members {
		if m.Relation == RelationSelf && m.Age != nil && *m.Age >= adultAge {
			return true
		}
	}
	return false
}

// MissingFields lists the fields still needed before a recommendation can be
// made, in the order the assistant should ask for them.
func MissingFields(p Profile) []string {
	var missing []string

	hasSelfAge := false
	for _, m := range p.Members {
		if m.Relation == RelationSelf && m.Age != nil {
			hasSelfAge = true
			break
		}
	}
	if !hasSelfAge {
		missing = append(missing, "age")
	}
	if p.Gender == "" {
		missing = append(missing, "gender")
	}
	if p.Location == "" {
		missing = append(missing, "location")
	}
	return missing
}
