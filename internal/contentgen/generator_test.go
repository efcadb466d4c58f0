package contentgen_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"procurement/internal/contentgen"
	"procurement/models"
)

type fakeCompleter struct {
	out     string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.out, f.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestDraftRFPFallsBackOnError(t *testing.T) {
	g := contentgen.New(&fakeCompleter{err: errors.New("quota exceeded")}, quietLogger())

	got := g.DraftRFP(context.Background(), contentgen.DraftRequest{Title: "Laptops", Description: "200 units"})
	require.Equal(t, "# Laptops\n\n200 units\n\n[AI generation failed - please edit manually]", got)
}

func TestDraftRFPWithoutCompleter(t *testing.T) {
	g := contentgen.New(nil, quietLogger())

	got := g.DraftRFP(context.Background(), contentgen.DraftRequest{Title: "T", Description: "D"})
	require.Contains(t, got, contentgen.RFPFailureNote)
}

func TestDraftRFPPromptCarriesCriteria(t *testing.T) {
	fc := &fakeCompleter{out: "  # Generated RFP  "}
	g := contentgen.New(fc, quietLogger())

	got := g.DraftRFP(context.Background(), contentgen.DraftRequest{
		Title:    "Cloud",
		Template: "## Scope",
		Criteria: models.BusinessCriteria{BudgetRange: "$100k-$200k"},
	})
	require.Equal(t, "# Generated RFP", got)
	require.Len(t, fc.prompts, 1)
	require.Contains(t, fc.prompts[0], "Budget range: $100k-$200k")
	require.Contains(t, fc.prompts[0], "## Scope")
	require.NotContains(t, fc.prompts[0], "Project duration")
}

func TestAnalyzeProposal(t *testing.T) {
	g := contentgen.New(&fakeCompleter{out: "Strong delivery record."}, quietLogger())
	require.Equal(t, "Strong delivery record.", g.AnalyzeProposal(context.Background(), "proposal text", "criteria"))

	require.Equal(t, contentgen.AnalysisPlaceholder, g.AnalyzeProposal(context.Background(), "   ", "criteria"))

	failing := contentgen.New(&fakeCompleter{out: ""}, quietLogger())
	require.Equal(t, contentgen.AnalysisPlaceholder, failing.AnalyzeProposal(context.Background(), "text", ""))
}

func TestSuggestQuestions(t *testing.T) {
	g := contentgen.New(&fakeCompleter{out: "1. How is data encrypted?\n- Who has admin access?\n\n* What is the RTO?"}, quietLogger())

	got := g.SuggestQuestions(context.Background(), "content", "security")
	require.Equal(t, []string{"How is data encrypted?", "Who has admin access?", "What is the RTO?"}, got)

	empty := contentgen.New(&fakeCompleter{err: errors.New("down")}, quietLogger())
	require.Empty(t, empty.SuggestQuestions(context.Background(), "content", "security"))
}
