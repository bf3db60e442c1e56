package dialogue

import (
	"time"

	"github.com/google/uuid"

	"insurance-ai-advisor/internal/profile"
)

// Conversation is the aggregate root for one intake dialogue. Everything the
// host needs to carry between turns lives here: the accumulated profile, the
// previous system action, and the running provider usage totals.
type Conversation struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Profile      profile.Profile `json:"profile" db:"profile"`
	LastAction   LastAction      `json:"last_action" db:"last_action"`
	TotalTokens  int             `json:"total_tokens" db:"total_tokens"`
	TotalCostINR float64         `json:"total_cost_inr" db:"total_cost_inr"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// Usage is the token/cost record reported by one provider call. The core
// treats the numbers as opaque pass-through counters.
type Usage struct {
	TotalTokens int     `json:"total_tokens"`
	CostINR     float64 `json:"cost_inr"`
}

func (c *Conversation) addUsage(u Usage) {
	c.TotalTokens += u.TotalTokens
	c.TotalCostINR += u.CostINR
}
