// Package compliance calls an OpenAI-compatible chat-completions endpoint
// to produce an advisory policy verdict for a transaction. The verdict is
// metadata only: it never gates a transition, and every failure degrades to
// an "unknown" verdict instead of an error.
package compliance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/grandguard/budget-service/internal/config"
	"github.com/grandguard/budget-service/internal/domain/models"
	"github.com/grandguard/budget-service/pkg/log"
	"github.com/rs/zerolog"
)

// PolicyAdvisor produces an advisory compliant/non-compliant/unknown
// judgement for a transaction in the context of its award.
type PolicyAdvisor interface {
	Evaluate(ctx context.Context, award *models.Award, txn *models.Transaction) models.ComplianceResult
}

// NewAdvisor returns the HTTP advisor when an API key is configured and the
// disabled advisor otherwise.
func NewAdvisor(cfg config.Compliance) PolicyAdvisor {
	if cfg.APIKey == "" {
		return &DisabledAdvisor{}
	}
	return NewOpenAIAdvisor(cfg)
}

// DisabledAdvisor answers "unknown" for everything.
type DisabledAdvisor struct{}

func (a *DisabledAdvisor) Evaluate(ctx context.Context, award *models.Award, txn *models.Transaction) models.ComplianceResult {
	return models.ComplianceResult{Verdict: models.ComplianceUnknown, Reason: "compliance advisor not configured"}
}

type OpenAIAdvisor struct {
	cfg    config.Compliance
	client *http.Client
	logger *zerolog.Logger
}

func NewOpenAIAdvisor(cfg config.Compliance) *OpenAIAdvisor {
	l := log.GetLogger()
	return &OpenAIAdvisor{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: &l,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const systemPrompt = "You are a policy compliance officer for a research budget management system. " +
	"Always respond with valid JSON only."

const promptTemplate = `Check whether the following expenditure request complies with institutional spending policy.

AWARD: %q, total amount $%s, status %s.
TRANSACTION: category %q, amount $%s, description %q.

Your output must be a JSON object in this exact format:
{"result": "compliant" | "non-compliant" | "unknown", "reason": "short explanation"}

Only return the JSON object, nothing else.`

// Evaluate asks the model for a verdict. Any transport, decoding, or
// content problem yields an "unknown" verdict with the reason attached.
func (a *OpenAIAdvisor) Evaluate(ctx context.Context, award *models.Award, txn *models.Transaction) models.ComplianceResult {
	prompt := fmt.Sprintf(promptTemplate,
		award.Title, award.Amount.StringFixed(2), award.Status,
		txn.Category, txn.Amount.StringFixed(2), txn.Description)

	body, err := json.Marshal(chatRequest{
		Model: a.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return unknown("failed to build request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return unknown("failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Warn().Err(err).Msg("compliance advisor unreachable")
		return unknown("advisor unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Warn().Int("status", resp.StatusCode).Msg("compliance advisor error")
		return unknown(fmt.Sprintf("advisor returned status %d", resp.StatusCode))
	}

	var chat chatResponse
	if err = json.NewDecoder(resp.Body).Decode(&chat); err != nil || len(chat.Choices) == 0 {
		return unknown("unparseable advisor response")
	}

	return parseVerdict(chat.Choices[0].Message.Content)
}

func parseVerdict(content string) models.ComplianceResult {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var result models.ComplianceResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return unknown("unparseable advisor verdict")
	}

	switch result.Verdict {
	case models.ComplianceCompliant, models.ComplianceNonCompliant, models.ComplianceUnknown:
		return result
	default:
		return unknown(fmt.Sprintf("unexpected verdict %q", result.Verdict))
	}
}

func unknown(reason string) models.ComplianceResult {
	return models.ComplianceResult{Verdict: models.ComplianceUnknown, Reason: reason}
}
