package agent

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"insurance-ai-advisor/internal/dialogue"
	"insurance-ai-advisor/internal/profile"
)

const extractorPrompt = `You are a profile extraction engine for a health insurance chatbot.
Extract structured data from the user's message in the following JSON format:

{
  "gender": "male" or "female" or null,
  "location": "Tier 1" / "Tier 2" / "Tier 3" or null,
  "members": [
    {"relation": "self/spouse/father/mother/son/daughter/...", "age": integer}
  ]
}

Strict rules:
- Extract only what is *explicitly stated* in the message.
- Do NOT assume gender or location. If not clearly mentioned, set them to null.
- Age must be a number. If unclear, skip the member.
- If a person is mentioned but no relation is stated, default to "self".
- Never guess or hallucinate values.

Only return valid JSON. No explanations or extra text.`

// ExtractProfile pulls a profile fragment out of one user message.
// Non-parseable model output is absorbed here: it logs and returns an empty
// fragment, so merging stays a no-op instead of failing the turn.
func (c *Client) ExtractProfile(ctx context.Context, text string) (profile.Partial, dialogue.Usage, error) {
	output, usage, err := c.complete(ctx, extractorPrompt, text)
	if err != nil {
		return profile.Partial{}, dialogue.Usage{}, err
	}

	fragment, ok := parsePartial(output)
	if !ok {
		c.log.Warn("discarding malformed extraction output", zap.String("output", output))
		return profile.Partial{}, usage, nil
	}
	return fragment, usage, nil
}

// parsePartial decodes and sanitizes extractor output. Values outside the
// provider contract (unknown gender labels, negative ages, blank relations)
// are treated as absent rather than rejected wholesale.
func parsePartial(raw string) (profile.Partial, bool) {
	raw = stripCodeFence(raw)

	var fragment profile.Partial
	if err := json.Unmarshal([]byte(raw), &fragment); err != nil {
		return profile.Partial{}, false
	}

	fragment.Gender = strings.ToLower(strings.TrimSpace(fragment.Gender))
	if fragment.Gender != profile.GenderMale && fragment.Gender != profile.GenderFemale {
		fragment.Gender = ""
	}
	fragment.Location = strings.TrimSpace(fragment.Location)

	members := fragment.Members[:0]
	for _, m := range fragment.Members {
		m.Relation = strings.ToLower(strings.TrimSpace(m.Relation))
		if m.Relation == "" {
			m.Relation = profile.RelationSelf
		}
		if m.Age != nil && *m.Age < 0 {
			m.Age = nil
		}
		members = append(members, m)
	}
	fragment.Members = members

	return fragment, true
}

// stripCodeFence removes a surrounding markdown fence when the model wraps
// its JSON despite the prompt.
func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}
