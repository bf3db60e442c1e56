package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/signintech/gopdf"
	"go.uber.org/zap"

	"insurance-ai-advisor/internal/dialogue"
	"insurance-ai-advisor/internal/recommend"
)

type TelegramClient interface {
	SendMessage(chatID int64, text string) error
	SendDocument(chatID int64, fileData []byte, fileName string) error
}

// Service renders the advisor handoff report as a PDF and delivers it to
// the advisor's Telegram chat.
type Service struct {
	tgClient      TelegramClient
	advisorChatID int64
	log           *zap.Logger
}

func NewService(tg TelegramClient, advisorChatID int64, log *zap.Logger) *Service {
	return &Service{
		tgClient:      tg,
		advisorChatID: advisorChatID,
		log:           log,
	}
}

func (s *Service) SendAdvisorReport(ctx context.Context, c dialogue.Conversation, rec recommend.Presentation) error {
	s.log.Info("generating advisor handoff report", zap.String("conversation_id", c.ID.String()))

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	// Common font locations across the deployment images.
	fontPaths := []string{
		"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	}

	var fontErr error
	fontLoaded := false
	for _, path := range fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return fmt.Errorf("failed to load font for PDF, is ttf-dejavu installed? last error: %w", fontErr)
	}

	if err := pdf.SetFont("DejaVu", "", 20); err != nil {
		return err
	}
	pdf.Cell(nil, "Insurance Advisor Handoff")
	pdf.Br(30)

	if err := pdf.SetFont("DejaVu", "", 12); err != nil {
		return err
	}
	pdf.Cell(nil, fmt.Sprintf("Date: %s", time.Now().Format("02.01.2006 15:04")))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Conversation ID: %s", c.ID))
	pdf.Br(25)

	if err := pdf.SetFont("DejaVu", "", 14); err != nil {
		return err
	}
	pdf.Cell(nil, "Customer profile:")
	pdf.Br(15)

	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return err
	}
	pdf.Cell(nil, fmt.Sprintf("- Gender: %s", valueOr(c.Profile.Gender, "not stated")))
	pdf.Br(12)
	pdf.Cell(nil, fmt.Sprintf("- City: %s", valueOr(c.Profile.Location, "not stated")))
	pdf.Br(12)
	for _, m := range c.Profile.Members {
		line := fmt.Sprintf("- Member: %s", m.Relation)
		if m.Age != nil {
			line = fmt.Sprintf("- Member: %s, %d yrs", m.Relation, *m.Age)
		}
		pdf.Cell(nil, line)
		pdf.Br(12)
	}
	if len(c.Profile.PEDConditions) > 0 {
		pdf.Cell(nil, fmt.Sprintf("- Pre-existing conditions: %s", strings.Join(c.Profile.PEDConditions, ", ")))
		pdf.Br(12)
	}
	pdf.Br(13)

	if err := pdf.SetFont("DejaVu", "", 14); err != nil {
		return err
	}
	pdf.Cell(nil, "Matched plans:")
	pdf.Br(15)

	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return err
	}
	if len(rec.Top) == 0 {
		pdf.Cell(nil, "- No plan bucket matched this profile; manual review needed.")
		pdf.Br(12)
	}
	for _, p := range rec.Top {
		line := fmt.Sprintf("- %s (score %.2f)", p.PlanName, p.Score)
		lines, _ := pdf.SplitText(line, 500)
		for _, l := range lines {
			pdf.Cell(nil, l)
			pdf.Br(12)
		}
	}
	if len(rec.Needs) > 0 {
		pdf.Br(5)
		lines, _ := pdf.SplitText(fmt.Sprintf("Relevant needs: %s", strings.Join(rec.Needs, ", ")), 500)
		for _, l := range lines {
			pdf.Cell(nil, l)
			pdf.Br(12)
		}
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	fileName := fmt.Sprintf("handoff_%s.pdf", c.ID)
	if err := s.tgClient.SendDocument(s.advisorChatID, buf.Bytes(), fileName); err != nil {
		s.log.Error("sending handoff document failed", zap.Error(err))
		return err
	}

	summary := fmt.Sprintf("New callback request, conversation %s. Profile and plan shortlist attached.", c.ID)
	if err := s.tgClient.SendMessage(s.advisorChatID, summary); err != nil {
		s.log.Warn("sending handoff summary message failed", zap.Error(err))
	}

	return nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
