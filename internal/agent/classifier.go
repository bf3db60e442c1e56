package agent

import (
	"context"

	"insurance-ai-advisor/internal/dialogue"
)

const classifierPrompt = `You are an intent classifier for a health insurance chatbot. Classify the user's message into one of these intents:

1. greeting - greetings like "hi", "hello", etc.
2. profile_info - user gives info like age, gender, city, or family members. Even single words like "male", "30", or "Bangalore" should be profile_info.
3. recommend - asks for plan suggestions or best policy.
4. policy_query - asks about specific plan features (e.g., maternity, room rent).
5. concept_query - asks to explain insurance terms (e.g., co-pay, deductible).
6. compare - asks to compare policies or insurers.
7. limitation_query - asks about exclusions or what's not covered.
8. affirmation - short positive replies like "yes", "okay", "sure", "go ahead".
9. general_info - user wants to know about insurance in general, or asks vague/broad questions (e.g., "I want to know about insurance").
10. unknown - anything else.

Return only the intent label (e.g., "profile_info").`

// ClassifyIntent labels one user utterance. Unrecognized labels from the
// model degrade to unknown; only transport failures return an error.
func (c *Client) ClassifyIntent(ctx context.Context, text string) (dialogue.Intent, dialogue.Usage, error) {
	output, usage, err := c.complete(ctx, classifierPrompt, text)
	if err != nil {
		return dialogue.IntentUnknown, dialogue.Usage{}, err
	}
	return dialogue.ParseIntent(output), usage, nil
}
