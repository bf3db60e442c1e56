package dialogue

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"insurance-ai-advisor/internal/profile"
)

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Conversation, error) {
	query := `SELECT id, profile, last_action, total_tokens, total_cost_inr, created_at, updated_at
	          FROM conversations WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)

	var c Conversation
	var profileJSON []byte

	err := row.Scan(
		&c.ID,
		&profileJSON,
		&c.LastAction,
		&c.TotalTokens,
		&c.TotalCostINR,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	if len(profileJSON) > 0 {
		if err := json.Unmarshal(profileJSON, &c.Profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
		}
	} else {
		c.Profile = profile.Profile{}
	}

	return &c, nil
}

func (r *postgresRepo) Save(ctx context.Context, c *Conversation) error {
	profileJSON, err := json.Marshal(c.Profile)
	if err != nil {
		return err
	}

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	c.UpdatedAt = time.Now()

	query := `
		INSERT INTO conversations (id, profile, last_action, total_tokens, total_cost_inr, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			profile = $2,
			last_action = $3,
			total_tokens = $4,
			total_cost_inr = $5,
			updated_at = $7
	`
	_, err = r.db.ExecContext(ctx, query,
		c.ID, profileJSON, c.LastAction, c.TotalTokens, c.TotalCostINR, c.CreatedAt, c.UpdatedAt)
	return err
}
