// Package contentgen drafts RFP text, summarizes proposals and suggests
// evaluation questions through a chat-completion backend. Every call is
// best effort: failures are logged and replaced with placeholder text.
package contentgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"procurement/internal/metrics"
	"procurement/models"
)

const (
	RFPFailureNote      = "[AI generation failed - please edit manually]"
	AnalysisPlaceholder = "AI analysis failed - please add manual summary"

	defaultTimeout = 60 * time.Second
)

var ErrDisabled = errors.New("content generation is not configured")

// Completer отправляет один промпт и возвращает текст ответа
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type DraftRequest struct {
	Title       string
	Description string
	Template    string
	Criteria    models.BusinessCriteria
}

type Generator struct {
	completer Completer
	log       logrus.FieldLogger
	timeout   time.Duration
}

// New with a nil completer returns a generator that always falls back.
func New(c Completer, log logrus.FieldLogger) *Generator {
	return &Generator{completer: c, log: log, timeout: defaultTimeout}
}

func (g *Generator) complete(ctx context.Context, kind, prompt string) (string, error) {
	if g.completer == nil {
		metrics.ContentGeneration.WithLabelValues(kind, "disabled").Inc()
		return "", ErrDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	out, err := g.completer.Complete(ctx, prompt)
	if err == nil && strings.TrimSpace(out) == "" {
		err = errors.New("empty completion")
	}
	if err != nil {
		metrics.ContentGeneration.WithLabelValues(kind, "error").Inc()
		g.log.WithError(err).WithField("kind", kind).Warn("content generation failed")
		return "", err
	}
	metrics.ContentGeneration.WithLabelValues(kind, "ok").Inc()
	return strings.TrimSpace(out), nil
}

func (g *Generator) DraftRFP(ctx context.Context, req DraftRequest) string {
	out, err := g.complete(ctx, "rfp", draftPrompt(req))
	if err != nil {
		return fmt.Sprintf("# %s\n\n%s\n\n%s", req.Title, req.Description, RFPFailureNote)
	}
	return out
}

func (g *Generator) AnalyzeProposal(ctx context.Context, text, criteria string) string {
	if strings.TrimSpace(text) == "" {
		return AnalysisPlaceholder
	}
	out, err := g.complete(ctx, "proposal", analysisPrompt(text, criteria))
	if err != nil {
		return AnalysisPlaceholder
	}
	return out
}

// SuggestQuestions возвращает пустой список, если генерация недоступна
func (g *Generator) SuggestQuestions(ctx context.Context, content, category string) []string {
	out, err := g.complete(ctx, "questions", questionsPrompt(content, category))
	if err != nil {
		return []string{}
	}
	return parseList(out)
}

func draftPrompt(req DraftRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a complete, professional Request for Proposal in Markdown.\n\nTitle: %s\nDescription: %s\n", req.Title, req.Description)
	c := req.Criteria
	for _, kv := range [][2]string{
		{"Budget range", c.BudgetRange},
		{"Project duration", c.Duration},
		{"Required experience", c.RequiredExperience},
		{"Location preference", c.LocationPreference},
		{"Compliance requirements", c.ComplianceRequirements},
		{"Preferred start date", c.PreferredStartDate},
	} {
		if kv[1] != "" {
			fmt.Fprintf(&b, "%s: %s\n", kv[0], kv[1])
		}
	}
	if req.Template != "" {
		fmt.Fprintf(&b, "\nFollow the structure of this template:\n%s\n", req.Template)
	}
	b.WriteString("\nInclude sections for scope, functional requirements, security requirements, commercial terms and submission instructions.")
	return b.String()
}

func analysisPrompt(text, criteria string) string {
	return fmt.Sprintf("Summarize the following vendor proposal for an evaluation committee. "+
		"List strengths, weaknesses and risks against these criteria:\n%s\n\nProposal:\n%s", criteria, text)
}

func questionsPrompt(content, category string) string {
	return fmt.Sprintf("Suggest five %s evaluation questions for proposals responding to this RFP. "+
		"Return one question per line without numbering.\n\n%s", category, content)
}

// parseList разбирает ответ построчно, убирая маркеры и нумерацию
func parseList(out string) []string {
	items := []string{}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•0123456789.) ")
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}
