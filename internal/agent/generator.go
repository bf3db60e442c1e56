package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"insurance-ai-advisor/internal/dialogue"
	"insurance-ai-advisor/internal/profile"
	"insurance-ai-advisor/internal/recommend"
)

const askInfoPrompt = `You are a smart and friendly health insurance advisor chatbot.
Based on the user's current profile and the missing fields list,
ask one natural, conversational question to get one of the missing fields.
Only ask for one field at a time.`

const answerPrompt = `You are a helpful health insurance advisor.
- ONLY talk about Health Insurance (ignore other types like auto, life etc.).
- Be clear, friendly, and factual.
- Return answers ONLY as neat bullet points and concise.
- Limit to max 5 points.
- Always give the follow-up question or next step to be truly conversational.`

// AskMissingField asks one conversational question for one of the missing
// profile fields.
func (c *Client) AskMissingField(ctx context.Context, p profile.Profile, missing []string) (string, dialogue.Usage, error) {
	profileJSON, err := json.Marshal(p)
	if err != nil {
		return "", dialogue.Usage{}, err
	}
	user := fmt.Sprintf("Profile so far: %s\nMissing fields: %s",
		profileJSON, strings.Join(missing, ", "))
	return c.complete(ctx, askInfoPrompt, user)
}

// AnswerQuery answers a knowledge question (concept, policy, limitation or
// general info).
func (c *Client) AnswerQuery(ctx context.Context, intent dialogue.Intent, question string) (string, dialogue.Usage, error) {
	user := fmt.Sprintf("User intent: %s. Question: %s", intent, question)
	return c.complete(ctx, answerPrompt, user)
}

// PresentRecommendation turns resolved plan data into the recommendation
// message shown to the user.
func (c *Client) PresentRecommendation(ctx context.Context, rec recommend.Presentation, question string) (string, dialogue.Usage, error) {
	system := recommendationPrompt(rec)
	user := fmt.Sprintf("User intent: recommend. Question: %s", question)
	return c.complete(ctx, system, user)
}

func recommendationPrompt(rec recommend.Presentation) string {
	needs := strings.Join(rec.Needs, ", ")

	var b strings.Builder
	b.WriteString(`You are an insurance advisor. Based on the data below, generate:
1. A clear recommendation message (~150 words) highlighting the **single best plan**.
   - Show why this plan fits the user's profile (refer to these needs: ` + needs + `).
   - Mention Sum Insured and suggested term.
2. Mention the **next 2 best alternatives** briefly.
3. A comparison table (Markdown format) for the top plans, with columns:
   - Plan Name
   - Score
   - Key Benefits (only the needs relevant to user profile: ` + needs + `)
4. End with a short, friendly follow-up question that nudges the user towards action,
   such as connecting with an expert, requesting a callback, or exploring premium details.

Recommendation data:
`)
	fmt.Fprintf(&b, "Top ranked plans: %s\n", formatPlans(rec.Top))
	fmt.Fprintf(&b, "All scores: %s\n", formatPlans(rec.Scores))
	fmt.Fprintf(&b, "Featured plan: %s (score %.2f)\n", rec.Featured.PlanName, rec.Featured.Score)
	fmt.Fprintf(&b, "User attributes: %s\n", rec.Attributes)
	fmt.Fprintf(&b, "Relevant needs: %s\n", needs)
	b.WriteString("Suggested term: suggest the best 1 / 2 / 3 year term for this profile\n")
	b.WriteString("Sum Insured: infer the best SI for this profile in Lakh\n")
	return b.String()
}

func formatPlans(plans []recommend.ScoredPlan) string {
	parts := make([]string, 0, len(plans))
	for _, p := range plans {
		parts = append(parts, fmt.Sprintf("%s: %.2f", p.PlanName, p.Score))
	}
	return strings.Join(parts, "; ")
}
