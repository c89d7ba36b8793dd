// Package agent implements the conversational assistant. It wraps a
// Gemini chat session with the development's system prompt, keeps
// per-user history, and flags when a conversation is asking to book a
// visit so the widget can hand off to the booking flow.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/pantrio/zaru-visits/services/visits-service/internal/catalog"
)

const fallbackReply = "Disculpa, tuve un problema al procesar tu mensaje. ¿Podrías intentarlo de nuevo? Si el problema persiste, llámanos al 442 161 2000."

// scheduleKeywords flag an explicit intent to book a visit.
var scheduleKeywords = []string{
	"agendar", "agendar cita", "quiero agendar",
	"agendar visita", "reservar", "apartar",
}

type Config struct {
	APIKey string
	Model  string
}

// Reply is the assistant's answer plus the booking-intent analysis the
// widget acts on.
type Reply struct {
	UserID          string `json:"userId"`
	Reply           string `json:"reply"`
	RequiresBooking bool   `json:"requiresBooking"`
	RecommendedUnit string `json:"recommendedUnit,omitempty"`
	Provider        string `json:"aiProvider"`
}

type Agent struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	history *HistoryStore
	catalog *catalog.Catalog
	prompt  string
	logger  *slog.Logger
}

func New(ctx context.Context, cfg Config, history *HistoryStore, cat *catalog.Catalog, logger *slog.Logger) (*Agent, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key not configured")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(0.7)
	model.SetTopP(0.9)
	model.SetMaxOutputTokens(800)

	return &Agent{
		client:  client,
		model:   model,
		history: history,
		catalog: cat,
		prompt:  buildSystemPrompt(cat),
		logger:  logger,
	}, nil
}

func (a *Agent) Close() error {
	return a.client.Close()
}

// ProcessMessage answers one user message. Model failures degrade to a
// canned apology instead of surfacing an error to the widget.
func (a *Agent) ProcessMessage(ctx context.Context, userID, message string) Reply {
	past, err := a.history.Recent(ctx, userID)
	if err != nil {
		a.logger.Warn("failed to load history", "user_id", userID, "err", err)
	}
	if err := a.history.Append(ctx, userID, "user", message); err != nil {
		a.logger.Warn("failed to record user message", "user_id", userID, "err", err)
	}

	text, err := a.generate(ctx, past, message)
	if err != nil {
		a.logger.Error("gemini call failed", "user_id", userID, "err", err)
		text = fallbackReply
	}

	if err := a.history.Append(ctx, userID, "model", text); err != nil {
		a.logger.Warn("failed to record assistant reply", "user_id", userID, "err", err)
	}

	unit, _ := a.catalog.MatchName(message + " " + text)
	return Reply{
		UserID:          userID,
		Reply:           text,
		RequiresBooking: DetectScheduleIntent(message),
		RecommendedUnit: unit,
		Provider:        "gemini",
	}
}

func (a *Agent) generate(ctx context.Context, past []Message, message string) (string, error) {
	session := a.model.StartChat()
	session.History = []*genai.Content{
		{Role: "user", Parts: []genai.Part{genai.Text(a.prompt)}},
		{Role: "model", Parts: []genai.Part{genai.Text(promptAck)}},
	}

	for _, m := range past {
		role := "user"
		if m.Role != "user" {
			role = "model"
		}
		session.History = append(session.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return fallbackReply, nil
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return fallbackReply, nil
	}
	return text, nil
}

// DetectScheduleIntent reports whether the message explicitly asks to
// book a visit.
func DetectScheduleIntent(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range scheduleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
