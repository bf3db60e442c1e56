package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"insurance-ai-advisor/internal/profile"
	"insurance-ai-advisor/internal/recommend"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrProviderUnavailable  = errors.New("provider unavailable")
	ErrProfileIncomplete    = errors.New("profile incomplete")
)

// topPlanCount is how many distinct plans are surfaced per recommendation.
const topPlanCount = 3

const noMatchResponse = "I couldn't find a plan match for your exact profile yet. " +
	"You can adjust your details, or I can connect you with a human advisor."

// NLUClient classifies utterances and extracts profile fragments. Malformed
// structured output must be absorbed by the implementation (empty Partial),
// so only transport-level failures surface here.
type NLUClient interface {
	ClassifyIntent(ctx context.Context, text string) (Intent, Usage, error)
	ExtractProfile(ctx context.Context, text string) (profile.Partial, Usage, error)
}

// Generator renders structured instructions into presentable text.
type Generator interface {
	AskMissingField(ctx context.Context, p profile.Profile, missing []string) (string, Usage, error)
	AnswerQuery(ctx context.Context, intent Intent, question string) (string, Usage, error)
	PresentRecommendation(ctx context.Context, rec recommend.Presentation, question string) (string, Usage, error)
}

// PlanResolver matches a completed profile's vector against the plan table.
type PlanResolver interface {
	Resolve(v recommend.FeatureVector) recommend.Resolution
	Present(res recommend.Resolution, n int) recommend.Presentation
}

// ReportService hands a conversation over to a human advisor.
type ReportService interface {
	SendAdvisorReport(ctx context.Context, conv Conversation, rec recommend.Presentation) error
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Conversation, error)
	Save(ctx context.Context, c *Conversation) error
}

// TurnResult is what one processed turn returns to the transport layer.
type TurnResult struct {
	Reply        string        `json:"reply"`
	Action       Action        `json:"action"`
	Conversation *Conversation `json:"conversation"`
}

type Service interface {
	CreateConversation(ctx context.Context) (*Conversation, error)
	GetConversation(ctx context.Context, id uuid.UUID) (*Conversation, error)
	ProcessMessage(ctx context.Context, id uuid.UUID, text string) (*TurnResult, error)
	SubmitProfile(ctx context.Context, id uuid.UUID, p profile.Profile) (*TurnResult, error)
	ResetProfile(ctx context.Context, id uuid.UUID) (*TurnResult, error)
	Handoff(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo      Repository
	nlu       NLUClient
	gen       Generator
	resolver  PlanResolver
	reportSvc ReportService
	log       *zap.Logger
}

func NewService(repo Repository, nlu NLUClient, gen Generator, resolver PlanResolver, report ReportService, log *zap.Logger) Service {
	return &service{
		repo:      repo,
		nlu:       nlu,
		gen:       gen,
		resolver:  resolver,
		reportSvc: report,
		log:       log,
	}
}

func (s *service) CreateConversation(ctx context.Context) (*Conversation, error) {
	c := &Conversation{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetConversation(ctx context.Context, id uuid.UUID) (*Conversation, error) {
	return s.repo.GetByID(ctx, id)
}

// ProcessMessage runs one dialogue turn: classify, extract, merge exactly
// once, decide, render, persist. Provider transport failures abort the turn
// without saving, so the stored state never reflects a half-processed
// message.
func (s *service) ProcessMessage(ctx context.Context, id uuid.UUID, text string) (*TurnResult, error) {
	conv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	intent, usage, err := s.nlu.ClassifyIntent(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: classify intent: %v", ErrProviderUnavailable, err)
	}
	conv.addUsage(usage)

	fragment, usage, err := s.nlu.ExtractProfile(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: extract profile: %v", ErrProviderUnavailable, err)
	}
	conv.addUsage(usage)

	conv.Profile = profile.Merge(conv.Profile, fragment)

	d := Decide(intent, conv.Profile, conv.LastAction)
	conv.LastAction = d.LastAction

	reply := d.Response
	switch d.Action {
	case ActionAskInfo:
		reply, usage, err = s.gen.AskMissingField(ctx, conv.Profile, profile.MissingFields(conv.Profile))
		if err != nil {
			return nil, fmt.Errorf("%w: ask missing field: %v", ErrProviderUnavailable, err)
		}
		conv.addUsage(usage)

	case ActionCallGPT:
		reply, usage, err = s.gen.AnswerQuery(ctx, intent, text)
		if err != nil {
			return nil, fmt.Errorf("%w: answer query: %v", ErrProviderUnavailable, err)
		}
		conv.addUsage(usage)

	case ActionRecommend:
		res := s.resolver.Resolve(recommend.Vectorize(conv.Profile))
		if res.Empty() {
			s.log.Warn("plan lookup miss",
				zap.String("conversation_id", conv.ID.String()),
				zap.Strings("vector", recommend.Vectorize(conv.Profile).Active()))
			reply = noMatchResponse
			break
		}
		pres := s.resolver.Present(res, topPlanCount)
		reply, usage, err = s.gen.PresentRecommendation(ctx, pres, text)
		if err != nil {
			return nil, fmt.Errorf("%w: present recommendation: %v", ErrProviderUnavailable, err)
		}
		conv.addUsage(usage)

	case ActionCompare:
		reply = compareResponse
	}

	if err := s.repo.Save(ctx, conv); err != nil {
		return nil, err
	}

	return &TurnResult{Reply: reply, Action: d.Action, Conversation: conv}, nil
}

// SubmitProfile replaces the stored profile with a full snapshot from the
// intake form, bypassing NLU extraction.
func (s *service) SubmitProfile(ctx context.Context, id uuid.UUID, p profile.Profile) (*TurnResult, error) {
	conv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	conv.Profile = p
	conv.LastAction = LastStatic

	reply := profileSummary(p) +
		"\n\nThanks, I've updated your profile. Would you like me to recommend the best plan, or compare options?"

	if err := s.repo.Save(ctx, conv); err != nil {
		return nil, err
	}
	return &TurnResult{Reply: reply, Action: ActionStatic, Conversation: conv}, nil
}

// ResetProfile clears the accumulated profile. This is the only way members
// are ever removed.
func (s *service) ResetProfile(ctx context.Context, id uuid.UUID) (*TurnResult, error) {
	conv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	conv.Profile = profile.Profile{}
	conv.LastAction = LastReset

	if err := s.repo.Save(ctx, conv); err != nil {
		return nil, err
	}
	return &TurnResult{Reply: resetResponse, Action: ActionStatic, Conversation: conv}, nil
}

// Handoff resolves the current profile one more time and sends the advisor
// report. The vector is recomputed here rather than reusing any earlier
// result, so the report always reflects the profile as stored.
func (s *service) Handoff(ctx context.Context, id uuid.UUID) error {
	conv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !profile.IsComplete(conv.Profile) {
		return ErrProfileIncomplete
	}

	res := s.resolver.Resolve(recommend.Vectorize(conv.Profile))
	pres := s.resolver.Present(res, topPlanCount)

	if err := s.reportSvc.SendAdvisorReport(ctx, *conv, pres); err != nil {
		return fmt.Errorf("send advisor report: %w", err)
	}
	return nil
}

func profileSummary(p profile.Profile) string {
	var b strings.Builder
	b.WriteString("Profile captured:\n")
	fmt.Fprintf(&b, "- Gender: %s\n", orUnset(p.Gender))
	fmt.Fprintf(&b, "- City: %s\n", orUnset(p.Location))
	b.WriteString("- Members:\n")
	for _, m := range p.Members {
		if m.Age != nil {
			fmt.Fprintf(&b, "  - %s: %d yrs\n", capitalize(m.Relation), *m.Age)
		} else {
			fmt.Fprintf(&b, "  - %s\n", capitalize(m.Relation))
		}
	}
	if len(p.PEDConditions) > 0 {
		fmt.Fprintf(&b, "- Pre-existing: %s", strings.Join(p.PEDConditions, ", "))
	} else {
		b.WriteString("- Pre-existing: None")
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func orUnset(s string) string {
	if s == "" {
		return "not set"
	}
	return s
}
