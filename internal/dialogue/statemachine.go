package dialogue

import "insurance-ai-advisor/internal/profile"

// Action is what the system does with the current turn.
type Action string

const (
	ActionStatic    Action = "static"
	ActionAskInfo   Action = "ask_info"
	ActionRecommend Action = "recommend"
	ActionCompare   Action = "compare"
	ActionCallGPT   Action = "call_gpt"
	ActionFallback  Action = "fallback"
)

// LastAction records what the assistant did on the previous turn and is the
// dialogue context the state machine keys on. It widens Action with the
// delegated query intents (a call_gpt turn records the intent it answered),
// plus the greeting, unknown and reset markers.
type LastAction string

const (
	LastNone      LastAction = ""
	LastGreeting  LastAction = "greeting"
	LastStatic    LastAction = "static"
	LastAskInfo   LastAction = "ask_info"
	LastRecommend LastAction = "recommend"
	LastCompare   LastAction = "compare"
	LastUnknown   LastAction = "unknown"
	LastFallback  LastAction = "fallback"
	LastReset     LastAction = "reset_profile"
)

// Decision is the state machine's output for one turn. Response is only set
// for turns that need no text-generation call.
type Decision struct {
	Action     Action
	LastAction LastAction
	Response   string
}

// Canned responses for turns that never reach the generation provider.
const (
	greetingResponse = "Hello! How can I assist you today with your insurance needs?"
	clarifyResponse  = "I didn't quite get that. Do you want me to explain terms, recommend plans, or help compare options?"
	fallbackResponse = "Sorry, I didn't quite catch that. Could you rephrase?"
	compareResponse  = "Sure, I can help you compare top plans. Tell me which plans or features matter most to you."
	resetResponse    = "Profile has been reset. Let's start fresh! What do you want to know about health insurance?"
)

// Decide maps (intent, profile, last action) to the next action. The profile
// must already be merged for this turn; Decide never mutates it and never
// calls out. The branches are evaluated in a fixed priority order and the
// first match wins, so the function is deterministic for any fixed input.
func Decide(intent Intent, p profile.Profile, last LastAction) Decision {
	complete := profile.IsComplete(p)

	switch intent {
	case IntentGreeting:
		return Decision{Action: ActionStatic, LastAction: LastGreeting, Response: greetingResponse}

	case IntentConceptQuery, IntentPolicyQuery, IntentLimitationQuery, IntentGeneralInfo:
		// Knowledge questions are delegated to the generation provider.
		return Decision{Action: ActionCallGPT, LastAction: LastAction(intent)}

	case IntentUnknown:
		switch {
		case !complete:
			return Decision{Action: ActionAskInfo, LastAction: LastAskInfo}
		case last == LastRecommend:
			// Right after a recommendation an unclear reply usually means
			// the user wants to dig into the options.
			return Decision{Action: ActionCompare, LastAction: LastCompare}
		case last == LastGreeting || last == LastStatic:
			return Decision{Action: ActionRecommend, LastAction: LastRecommend}
		default:
			return Decision{Action: ActionStatic, LastAction: LastUnknown, Response: clarifyResponse}
		}

	case IntentAffirmation:
		if complete {
			return Decision{Action: ActionRecommend, LastAction: LastRecommend}
		}
		return Decision{Action: ActionAskInfo, LastAction: LastAskInfo}

	case IntentProfileInfo:
		if last == LastAskInfo {
			if complete {
				return Decision{Action: ActionRecommend, LastAction: LastRecommend}
			}
			return Decision{Action: ActionAskInfo, LastAction: LastAskInfo}
		}
		// Profile details volunteered outside an ask_info exchange have no
		// dedicated rule and take the fallback branch. Kept explicit so the
		// behavior is pinned by tests instead of falling out of branch order.
		return Decision{Action: ActionFallback, LastAction: LastFallback, Response: fallbackResponse}

	case IntentRecommend, IntentCompare:
		if complete {
			return Decision{Action: Action(intent), LastAction: LastAction(intent)}
		}
		return Decision{Action: ActionAskInfo, LastAction: LastAskInfo}

	default:
		// Labels outside the enum behave exactly like unknown.
		return Decide(IntentUnknown, p, last)
	}
}
