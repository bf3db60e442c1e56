package dialogue

import "strings"

// Intent is the classified purpose of one user utterance.
type Intent string

const (
	IntentGreeting        Intent = "greeting"
	IntentProfileInfo     Intent = "profile_info"
	IntentRecommend       Intent = "recommend"
	IntentPolicyQuery     Intent = "policy_query"
	IntentConceptQuery    Intent = "concept_query"
	IntentCompare         Intent = "compare"
	IntentLimitationQuery Intent = "limitation_query"
	IntentAffirmation     Intent = "affirmation"
	IntentGeneralInfo     Intent = "general_info"
	IntentUnknown         Intent = "unknown"
)

// ParseIntent maps a raw classifier label onto the intent enum. The model is
// instructed to return a bare label, but stray quotes and casing do happen;
// anything that still fails to match degrades to IntentUnknown rather than
// erroring.
func ParseIntent(raw string) Intent {
	label := strings.ToLower(strings.TrimSpace(raw))
	label = strings.Trim(label, `"'.`)

	switch Intent(label) {
	case IntentGreeting, IntentProfileInfo, IntentRecommend, IntentPolicyQuery,
		IntentConceptQuery, IntentCompare, IntentLimitationQuery,
		IntentAffirmation, IntentGeneralInfo:
		return Intent(label)
	default:
		return IntentUnknown
	}
}
