package service_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"procurement/db/memstore"
	"procurement/internal/contentgen"
	"procurement/internal/scoring"
	"procurement/internal/service"
	"procurement/internal/workflow"
	"procurement/models"
)

type recordingNotifier struct {
	mu    sync.Mutex
	items []models.Notification
}

func (r *recordingNotifier) Notify(n models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *recordingNotifier) forUser(userID, kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.items {
		if n.UserID == userID && n.Type == kind {
			count++
		}
	}
	return count
}

func ptr[T any](v T) *T { return &v }

type fixture struct {
	ctx      context.Context
	store    *memstore.Store
	svc      *service.Service
	notifier *recordingNotifier
	pm       models.User
	pm2      models.User
	head     models.User
	ev1      models.User
	ev2      models.User
	vendor   *models.Vendor
}

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, opts ...service.Option) *fixture {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &fixture{ctx: context.Background(), store: memstore.New(), notifier: &recordingNotifier{}}
	opts = append([]service.Option{
		service.WithNotifier(f.notifier),
		service.WithLogger(log),
		service.WithClock(func() time.Time { return fixedNow }),
	}, opts...)
	f.svc = service.New(f.store, opts...)

	mk := func(email, name, role string) models.User {
		u := &models.User{Email: email, FullName: name, Role: role}
		require.NoError(t, f.store.CreateUser(f.ctx, u))
		return *u
	}
	f.pm = mk("pm@example.com", "Pat Manager", models.RoleProcurementManager)
	f.pm2 = mk("pm2@example.com", "Other Manager", models.RoleProcurementManager)
	f.head = mk("head@example.com", "Dana Head", models.RoleDeptHead)
	f.ev1 = mk("ev1@example.com", "Eve One", models.RoleEvaluator)
	f.ev2 = mk("ev2@example.com", "Ivan Two", models.RoleITAdmin)

	v, err := f.svc.CreateVendor(f.ctx, f.pm, models.Vendor{Name: "Acme", ContactEmail: "sales@acme.test"})
	require.NoError(t, err)
	f.vendor = v
	return f
}

func (f *fixture) rfp(t *testing.T, w models.Weights) *models.RFP {
	t.Helper()
	r, err := f.svc.CreateRFP(f.ctx, f.pm, service.RFPInput{Title: "Laptops", Description: "200 units", Weights: &w})
	require.NoError(t, err)
	return r
}

// publishedRFP RFP с двумя оценщиками в статусе published
func (f *fixture) publishedRFP(t *testing.T) *models.RFP {
	t.Helper()
	r := f.rfp(t, models.Weights{Functional: 40, Security: 30, Business: 30})
	_, err := f.svc.AddTeamMember(f.ctx, f.pm, r.ID, f.ev1.ID, models.TeamEvaluator)
	require.NoError(t, err)
	_, err = f.svc.AddTeamMember(f.ctx, f.pm, r.ID, f.ev2.ID, models.TeamEvaluator)
	require.NoError(t, err)
	_, err = f.svc.AddTeamMember(f.ctx, f.pm, r.ID, f.head.ID, models.TeamApprover)
	require.NoError(t, err)
	r, err = f.svc.PublishRFP(f.ctx, f.pm, r.ID)
	require.NoError(t, err)
	return r
}

func (f *fixture) proposal(t *testing.T, rfpID string) *models.Proposal {
	t.Helper()
	p, err := f.svc.CreateProposal(f.ctx, f.pm, service.ProposalInput{RFPID: rfpID, VendorID: f.vendor.ID, DocumentRef: "s3://docs/acme.pdf"})
	require.NoError(t, err)
	return p
}

func (f *fixture) evaluationFor(t *testing.T, proposalID string, evaluator models.User) models.Evaluation {
	t.Helper()
	evals, err := f.store.ListEvaluations(f.ctx, models.EvaluationFilter{ProposalIDs: []string{proposalID}, EvaluatorID: evaluator.ID})
	require.NoError(t, err)
	require.Len(t, evals, 1)
	return evals[0]
}

func (f *fixture) submit(t *testing.T, e models.Evaluation, evaluator models.User, f1, s, b int, rec string) *models.Evaluation {
	t.Helper()
	out, err := f.svc.SaveEvaluation(f.ctx, evaluator, e.ID, service.EvaluationInput{
		FunctionalScore: f1, SecurityScore: s, BusinessScore: b, Recommendation: rec, Submit: true,
	})
	require.NoError(t, err)
	return out
}

func TestCreateRFPWeights(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateRFP(f.ctx, f.pm, service.RFPInput{Title: "A", Weights: &models.Weights{Functional: 40, Security: 30, Business: 29}})
	require.ErrorIs(t, err, service.ErrValidation)
	require.ErrorIs(t, err, scoring.ErrWeightsSum)

	_, err = f.svc.CreateRFP(f.ctx, f.pm, service.RFPInput{Title: "A", Weights: &models.Weights{Functional: 40, Security: 30, Business: 31}})
	require.ErrorIs(t, err, scoring.ErrWeightsSum)

	r, err := f.svc.CreateRFP(f.ctx, f.pm, service.RFPInput{Title: "A", Weights: &models.Weights{Functional: 50, Security: 25, Business: 25}})
	require.NoError(t, err)
	require.Equal(t, models.RFPDraft, r.Status)
	require.Equal(t, 50, r.FunctionalWeight)

	defaults, err := f.svc.CreateRFP(f.ctx, f.pm, service.RFPInput{Title: "B"})
	require.NoError(t, err)
	require.Equal(t, service.DefaultWeights, defaults.Weights())
}

func TestCreateRFPRejectsExplicitZeroWeights(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateRFP(f.ctx, f.pm, service.RFPInput{Title: "X", Weights: &models.Weights{}})
	require.ErrorIs(t, err, service.ErrValidation)
	require.ErrorIs(t, err, scoring.ErrWeightsSum)
}

func TestCreateRFPRequiresManager(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateRFP(f.ctx, f.ev1, service.RFPInput{Title: "A"})
	require.ErrorIs(t, err, service.ErrForbidden)

	_, err = f.svc.CreateRFP(f.ctx, f.pm, service.RFPInput{Title: ""})
	require.ErrorIs(t, err, service.ErrValidation)
}

func TestCreateRFPWithFailingGeneratorUsesPlaceholder(t *testing.T) {
	f := newFixture(t)
	r, err := f.svc.CreateRFP(f.ctx, f.pm, service.RFPInput{Title: "Cloud", Description: "Hosting", UseAI: true})
	require.NoError(t, err)
	require.Equal(t, "# Cloud\n\nHosting\n\n"+contentgen.RFPFailureNote, r.Content)
}

func TestCreateRFPFromTemplate(t *testing.T) {
	f := newFixture(t)
	tpl, err := f.svc.CreateTemplate(f.ctx, f.pm, models.Template{Name: "Software", Content: "## Scope"})
	require.NoError(t, err)

	r, err := f.svc.CreateRFP(f.ctx, f.pm, service.RFPInput{Title: "App", TemplateID: tpl.ID})
	require.NoError(t, err)
	require.Equal(t, "## Scope", r.Content)

	_, err = f.svc.CreateRFP(f.ctx, f.pm, service.RFPInput{Title: "App", TemplateID: "missing"})
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestUpdateRFPOnlyDraft(t *testing.T) {
	f := newFixture(t)
	r := f.rfp(t, service.DefaultWeights)

	_, err := f.svc.UpdateRFP(f.ctx, f.pm2, r.ID, service.RFPPatch{Title: ptr("Hijack")})
	require.ErrorIs(t, err, service.ErrForbidden)

	updated, err := f.svc.UpdateRFP(f.ctx, f.pm, r.ID, service.RFPPatch{Title: ptr("Laptops v2"), Weights: &models.Weights{Functional: 60, Security: 20, Business: 20}})
	require.NoError(t, err)
	require.Equal(t, "Laptops v2", updated.Title)

	_, err = f.svc.SubmitRFP(f.ctx, f.pm, r.ID)
	require.NoError(t, err)

	for _, actor := range []models.User{f.pm, f.pm2, f.head} {
		_, err = f.svc.UpdateRFP(f.ctx, actor, r.ID, service.RFPPatch{Title: ptr("Late edit")})
		require.ErrorIs(t, err, workflow.ErrNotEditable)
	}
}

func TestUpdateRFPKeepsOmittedFields(t *testing.T) {
	f := newFixture(t)
	due := fixedNow.Add(14 * 24 * time.Hour)
	r, err := f.svc.CreateRFP(f.ctx, f.pm, service.RFPInput{
		Title:            "Servers",
		Description:      "Rack servers",
		DueDate:          &due,
		Weights:          &models.Weights{Functional: 50, Security: 25, Business: 25},
		SecurityCriteria: "ISO 27001",
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateRFP(f.ctx, f.pm, r.ID, service.RFPPatch{Title: ptr("Renamed")})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)
	require.Equal(t, models.Weights{Functional: 50, Security: 25, Business: 25}, updated.Weights())
	require.Equal(t, "Rack servers", updated.Description)
	require.Equal(t, "ISO 27001", updated.SecurityCriteria)
	require.NotNil(t, updated.DueDate)

	stored, err := f.store.GetRFP(f.ctx, r.ID)
	require.NoError(t, err)
	require.Equal(t, 50, stored.FunctionalWeight)

	_, err = f.svc.UpdateRFP(f.ctx, f.pm, r.ID, service.RFPPatch{Weights: &models.Weights{}})
	require.ErrorIs(t, err, scoring.ErrWeightsSum)

	_, err = f.svc.UpdateRFP(f.ctx, f.pm, r.ID, service.RFPPatch{Title: ptr("  ")})
	require.ErrorIs(t, err, service.ErrValidation)
}

func TestRFPApprovalFlow(t *testing.T) {
	f := newFixture(t)
	r := f.rfp(t, service.DefaultWeights)

	_, err := f.svc.ApproveRFP(f.ctx, f.head, r.ID)
	require.ErrorIs(t, err, workflow.ErrInvalidTransition)

	_, err = f.svc.SubmitRFP(f.ctx, f.pm2, r.ID)
	require.ErrorIs(t, err, service.ErrForbidden)

	submitted, err := f.svc.SubmitRFP(f.ctx, f.pm, r.ID)
	require.NoError(t, err)
	require.Equal(t, models.RFPPendingApproval, submitted.Status)
	require.Equal(t, 1, f.notifier.forUser(f.head.ID, models.NotifyApprovalRequested))

	_, err = f.svc.ApproveRFP(f.ctx, f.pm, r.ID)
	require.ErrorIs(t, err, service.ErrForbidden)

	rejected, err := f.svc.RejectRFP(f.ctx, f.head, r.ID, "budget missing")
	require.NoError(t, err)
	require.Equal(t, models.RFPDraft, rejected.Status)
	require.Equal(t, 1, f.notifier.forUser(f.pm.ID, models.NotifyRFPRejected))

	_, err = f.svc.SubmitRFP(f.ctx, f.pm, r.ID)
	require.NoError(t, err)
	approved, err := f.svc.ApproveRFP(f.ctx, f.head, r.ID)
	require.NoError(t, err)
	require.Equal(t, models.RFPApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	require.Equal(t, f.head.ID, *approved.ApprovedBy)

	published, err := f.svc.PublishRFP(f.ctx, f.pm, r.ID)
	require.NoError(t, err)
	require.Equal(t, models.RFPPublished, published.Status)
}

func TestSubmitRFPWithBadWeightsIsValidationError(t *testing.T) {
	f := newFixture(t)
	r := f.rfp(t, service.DefaultWeights)

	stored, err := f.store.GetRFP(f.ctx, r.ID)
	require.NoError(t, err)
	stored.BusinessWeight = 10
	require.NoError(t, f.store.UpdateRFP(f.ctx, stored))

	_, err = f.svc.SubmitRFP(f.ctx, f.pm, r.ID)
	require.ErrorIs(t, err, service.ErrValidation)
	require.ErrorIs(t, err, scoring.ErrWeightsSum)
}

func TestTeamRules(t *testing.T) {
	f := newFixture(t)
	r := f.rfp(t, service.DefaultWeights)

	_, err := f.svc.AddTeamMember(f.ctx, f.pm, r.ID, f.pm.ID, models.TeamEvaluator)
	require.ErrorIs(t, err, service.ErrValidation)

	_, err = f.svc.AddTeamMember(f.ctx, f.pm, r.ID, f.ev1.ID, "observer")
	require.ErrorIs(t, err, service.ErrValidation)

	_, err = f.svc.AddTeamMember(f.ctx, f.pm2, r.ID, f.ev1.ID, models.TeamEvaluator)
	require.ErrorIs(t, err, service.ErrForbidden)

	_, err = f.svc.AddTeamMember(f.ctx, f.pm, r.ID, "ghost", models.TeamEvaluator)
	require.ErrorIs(t, err, service.ErrNotFound)

	_, err = f.svc.AddTeamMember(f.ctx, f.pm, r.ID, f.ev1.ID, models.TeamEvaluator)
	require.NoError(t, err)
	team, err := f.svc.ListTeam(f.ctx, f.pm, r.ID)
	require.NoError(t, err)
	require.Len(t, team, 1)
	require.Equal(t, "Eve One", team[0].FullName)

	require.NoError(t, f.svc.RemoveTeamMember(f.ctx, f.pm, r.ID, f.ev1.ID))
	require.ErrorIs(t, f.svc.RemoveTeamMember(f.ctx, f.pm, r.ID, f.ev1.ID), service.ErrNotFound)
}

func TestProposalRequiresOpenRFP(t *testing.T) {
	f := newFixture(t)
	r := f.rfp(t, service.DefaultWeights)

	_, err := f.svc.CreateProposal(f.ctx, f.pm, service.ProposalInput{RFPID: r.ID, VendorID: f.vendor.ID})
	require.ErrorIs(t, err, workflow.ErrInvalidTransition)

	_, err = f.svc.PublishRFP(f.ctx, f.pm, r.ID)
	require.NoError(t, err)
	_, err = f.svc.CreateProposal(f.ctx, f.pm, service.ProposalInput{RFPID: r.ID, VendorID: "nope"})
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestProposalMovesRFPToEvaluationOnce(t *testing.T) {
	f := newFixture(t)
	r := f.publishedRFP(t)

	p := f.proposal(t, r.ID)
	require.Equal(t, models.ProposalSubmitted, p.Status)

	got, err := f.svc.GetRFP(f.ctx, f.pm, r.ID)
	require.NoError(t, err)
	require.Equal(t, models.RFPEvaluation, got.Status)

	evals, err := f.store.ListEvaluations(f.ctx, models.EvaluationFilter{ProposalIDs: []string{p.ID}})
	require.NoError(t, err)
	require.Len(t, evals, 2, "approvers do not get evaluations")
	require.Equal(t, 1, f.notifier.forUser(f.ev1.ID, models.NotifyEvaluationRequested))

	f.proposal(t, r.ID)
	got, err = f.svc.GetRFP(f.ctx, f.pm, r.ID)
	require.NoError(t, err)
	require.Equal(t, models.RFPEvaluation, got.Status)
}

func TestAssignEvaluatorIsIdempotent(t *testing.T) {
	f := newFixture(t)
	r := f.publishedRFP(t)
	p := f.proposal(t, r.ID)

	first, err := f.svc.AssignEvaluator(f.ctx, f.pm, p.ID, f.head.ID)
	require.NoError(t, err)
	second, err := f.svc.AssignEvaluator(f.ctx, f.pm, p.ID, f.head.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, f.notifier.forUser(f.head.ID, models.NotifyEvaluationRequested))

	existing := f.evaluationFor(t, p.ID, f.ev1)
	again, err := f.svc.AssignEvaluator(f.ctx, f.pm, p.ID, f.ev1.ID)
	require.NoError(t, err)
	require.Equal(t, existing.ID, again.ID)
}

func TestEvaluationAndApprovalFlow(t *testing.T) {
	f := newFixture(t)
	r := f.publishedRFP(t)
	p := f.proposal(t, r.ID)

	e1 := f.evaluationFor(t, p.ID, f.ev1)
	e2 := f.evaluationFor(t, p.ID, f.ev2)

	_, err := f.svc.SaveEvaluation(f.ctx, f.ev2, e1.ID, service.EvaluationInput{Submit: true, Recommendation: models.Recommend})
	require.ErrorIs(t, err, service.ErrForbidden)

	draft, err := f.svc.SaveEvaluation(f.ctx, f.ev1, e1.ID, service.EvaluationInput{FunctionalScore: 10})
	require.NoError(t, err)
	require.Equal(t, models.EvaluationPending, draft.Status)
	require.Nil(t, draft.SubmittedAt)

	_, err = f.svc.SaveEvaluation(f.ctx, f.ev1, e1.ID, service.EvaluationInput{Submit: true})
	require.ErrorIs(t, err, service.ErrValidation)

	done := f.submit(t, e1, f.ev1, 80, 60, 70, models.Recommend)
	require.Equal(t, 71, done.OverallScore)
	require.Equal(t, models.EvaluationCompleted, done.Status)
	require.Equal(t, fixedNow, *done.SubmittedAt)

	got, err := f.svc.GetProposal(f.ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, models.ProposalUnderReview, got.Status)

	_, err = f.svc.SaveEvaluation(f.ctx, f.ev1, e1.ID, service.EvaluationInput{Submit: true, Recommendation: models.NotRecommend})
	require.ErrorIs(t, err, workflow.ErrEvaluationCompleted)

	_, err = f.svc.SendForApproval(f.ctx, f.pm, p.ID)
	require.ErrorIs(t, err, workflow.ErrEvaluationsIncomplete)

	overall := 90
	_, err = f.svc.SaveEvaluation(f.ctx, f.ev2, e2.ID, service.EvaluationInput{
		FunctionalScore: 90, SecurityScore: 90, BusinessScore: 90, OverallScore: &overall,
		Recommendation: models.Recommend, Submit: true,
	})
	require.NoError(t, err)

	review, err := f.svc.ReviewProposal(f.ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 2, review.Summary.Completed)
	require.InDelta(t, 80.5, review.Summary.MeanOverall, 0.001)
	require.Equal(t, scoring.LabelStrongCandidate, review.Summary.Label)
	require.Equal(t, "Acme", review.Vendor.Name)

	_, err = f.svc.ApproveProposal(f.ctx, f.head, p.ID)
	require.ErrorIs(t, err, workflow.ErrInvalidTransition)

	flagged, err := f.svc.SendForApproval(f.ctx, f.pm, p.ID)
	require.NoError(t, err)
	require.True(t, flagged.AwaitingApproval)
	require.Equal(t, 1, f.notifier.forUser(f.head.ID, models.NotifyApprovalRequested))

	queue, err := f.svc.PendingApprovals(f.ctx, f.head)
	require.NoError(t, err)
	require.Len(t, queue.Proposals, 1)
	require.Equal(t, scoring.LabelStrongCandidate, queue.Proposals[0].Summary.Label)

	_, err = f.svc.ApproveProposal(f.ctx, f.pm, p.ID)
	require.ErrorIs(t, err, service.ErrForbidden)

	shortlisted, err := f.svc.ApproveProposal(f.ctx, f.head, p.ID)
	require.NoError(t, err)
	require.Equal(t, models.ProposalShortlisted, shortlisted.Status)
	require.False(t, shortlisted.AwaitingApproval)
	require.Equal(t, 1, f.notifier.forUser(f.pm.ID, models.NotifyProposalApproved))

	late, err := f.svc.AssignEvaluator(f.ctx, f.pm, p.ID, f.head.ID)
	require.ErrorIs(t, err, workflow.ErrProposalDecided)
	require.Nil(t, late)
}

func TestSendBackAndReject(t *testing.T) {
	f := newFixture(t)
	r := f.publishedRFP(t)
	p := f.proposal(t, r.ID)
	f.submit(t, f.evaluationFor(t, p.ID, f.ev1), f.ev1, 40, 40, 40, models.NotRecommend)
	f.submit(t, f.evaluationFor(t, p.ID, f.ev2), f.ev2, 50, 50, 50, models.NotRecommend)

	_, err := f.svc.SendForApproval(f.ctx, f.pm, p.ID)
	require.NoError(t, err)
	back, err := f.svc.SendBackProposal(f.ctx, f.head, p.ID)
	require.NoError(t, err)
	require.False(t, back.AwaitingApproval)
	require.Equal(t, models.ProposalUnderReview, back.Status)

	_, err = f.svc.SendForApproval(f.ctx, f.pm, p.ID)
	require.NoError(t, err)
	rejected, err := f.svc.RejectProposal(f.ctx, f.head, p.ID, "too expensive")
	require.NoError(t, err)
	require.Equal(t, models.ProposalRejected, rejected.Status)
	require.Equal(t, 1, f.notifier.forUser(f.pm.ID, models.NotifyProposalRejected))
}

func TestAssignEvaluatorWhileAwaitingApproval(t *testing.T) {
	f := newFixture(t)
	r := f.publishedRFP(t)
	p := f.proposal(t, r.ID)
	f.submit(t, f.evaluationFor(t, p.ID, f.ev1), f.ev1, 80, 80, 80, models.Recommend)
	f.submit(t, f.evaluationFor(t, p.ID, f.ev2), f.ev2, 70, 70, 70, models.Recommend)

	_, err := f.svc.SendForApproval(f.ctx, f.pm, p.ID)
	require.NoError(t, err)

	_, err = f.svc.AssignEvaluator(f.ctx, f.pm, p.ID, f.head.ID)
	require.ErrorIs(t, err, workflow.ErrAwaitingApproval)
	review, err := f.svc.ReviewProposal(f.ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 0, review.Summary.Pending)

	// после возврата на доработку оценщика добавить можно, но отправка снова ждёт его оценку
	_, err = f.svc.SendBackProposal(f.ctx, f.head, p.ID)
	require.NoError(t, err)
	_, err = f.svc.AssignEvaluator(f.ctx, f.pm, p.ID, f.head.ID)
	require.NoError(t, err)
	_, err = f.svc.SendForApproval(f.ctx, f.pm, p.ID)
	require.ErrorIs(t, err, workflow.ErrEvaluationsIncomplete)
}

func TestEvaluationBlockedOnDecidedProposal(t *testing.T) {
	f := newFixture(t)
	r := f.publishedRFP(t)
	p := f.proposal(t, r.ID)
	e := f.evaluationFor(t, p.ID, f.ev1)

	stored, err := f.store.GetProposal(f.ctx, p.ID)
	require.NoError(t, err)
	stored.Status = models.ProposalRejected
	require.NoError(t, f.store.UpdateProposal(f.ctx, stored))

	_, err = f.svc.SaveEvaluation(f.ctx, f.ev1, e.ID, service.EvaluationInput{Recommendation: models.Recommend, Submit: true})
	require.ErrorIs(t, err, workflow.ErrProposalDecided)
}

func TestSendForApprovalToleratesStaleProposalStatus(t *testing.T) {
	f := newFixture(t)
	r := f.publishedRFP(t)
	p := f.proposal(t, r.ID)

	for _, ev := range []models.User{f.ev1, f.ev2} {
		e := f.evaluationFor(t, p.ID, ev)
		rec := models.Recommend
		e.Status = models.EvaluationCompleted
		e.Recommendation = &rec
		require.NoError(t, f.store.UpdateEvaluation(f.ctx, &e))
	}

	flagged, err := f.svc.SendForApproval(f.ctx, f.pm, p.ID)
	require.NoError(t, err)
	require.Equal(t, models.ProposalUnderReview, flagged.Status)
	require.True(t, flagged.AwaitingApproval)
}

func TestGetEvaluationSuggestsOverall(t *testing.T) {
	f := newFixture(t)
	r := f.publishedRFP(t)
	p := f.proposal(t, r.ID)
	e := f.evaluationFor(t, p.ID, f.ev1)

	_, err := f.svc.SaveEvaluation(f.ctx, f.ev1, e.ID, service.EvaluationInput{FunctionalScore: 80, SecurityScore: 60, BusinessScore: 70})
	require.NoError(t, err)

	view, err := f.svc.GetEvaluation(f.ctx, f.ev1, e.ID)
	require.NoError(t, err)
	require.Equal(t, 71, view.Suggested)
	require.Equal(t, "Laptops", view.RFPTitle)

	_, err = f.svc.GetEvaluation(f.ctx, f.ev2, e.ID)
	require.ErrorIs(t, err, service.ErrForbidden)

	mine, err := f.svc.ListMyEvaluations(f.ctx, f.ev1, models.EvaluationPending)
	require.NoError(t, err)
	require.Len(t, mine, 1)
}

func TestVendorValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateVendor(f.ctx, f.pm, models.Vendor{Name: "No Email"})
	require.ErrorIs(t, err, service.ErrValidation)

	_, err = f.svc.CreateVendor(f.ctx, f.pm, models.Vendor{Name: "Bad", ContactEmail: "not-an-email"})
	require.ErrorIs(t, err, service.ErrValidation)

	_, err = f.svc.CreateVendor(f.ctx, f.ev1, models.Vendor{Name: "X", ContactEmail: "x@x.test"})
	require.ErrorIs(t, err, service.ErrForbidden)

	v, err := f.svc.UpdateVendor(f.ctx, f.pm, f.vendor.ID, models.Vendor{Name: " Acme Corp ", ContactEmail: "hq@acme.test", Phone: "555"})
	require.NoError(t, err)
	require.Equal(t, "Acme Corp", v.Name)
	require.Equal(t, f.pm.ID, v.CreatedBy)
}

func TestNotificationsReadState(t *testing.T) {
	f := newFixture(t)
	n := &models.Notification{UserID: f.pm.ID, Title: "t", Message: "m", Type: models.NotifyProposalApproved}
	require.NoError(t, f.store.CreateNotification(f.ctx, n))

	count, err := f.svc.UnreadCount(f.ctx, f.pm)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.ErrorIs(t, f.svc.MarkNotificationRead(f.ctx, f.head, n.ID), service.ErrNotFound)
	require.NoError(t, f.svc.MarkNotificationRead(f.ctx, f.pm, n.ID))

	unread, err := f.svc.ListNotifications(f.ctx, f.pm, true)
	require.NoError(t, err)
	require.Empty(t, unread)
}

func TestReportData(t *testing.T) {
	f := newFixture(t)
	r := f.publishedRFP(t)
	p := f.proposal(t, r.ID)
	f.submit(t, f.evaluationFor(t, p.ID, f.ev1), f.ev1, 80, 80, 80, models.Recommend)

	d, err := f.svc.ReportData(f.ctx, f.pm)
	require.NoError(t, err)
	require.Len(t, d.RFPs, 1)
	require.Len(t, d.Proposals, 1)
	require.Len(t, d.Evaluations, 2)
	require.Len(t, d.Vendors, 1)

	other, err := f.svc.ReportData(f.ctx, f.pm2)
	require.NoError(t, err)
	require.Empty(t, other.RFPs)
	require.Empty(t, other.Proposals)

	_, err = f.svc.ReportData(f.ctx, f.ev1)
	require.ErrorIs(t, err, service.ErrForbidden)

	cards, err := f.svc.Scorecards(f.ctx, f.pm, r.ID)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	require.Equal(t, "Acme", cards[0].VendorName)
}

func TestSuggestQuestions(t *testing.T) {
	f := newFixture(t)
	r := f.rfp(t, service.DefaultWeights)

	_, err := f.svc.SuggestQuestions(f.ctx, f.ev1, r.ID, "legal")
	require.ErrorIs(t, err, service.ErrValidation)

	_, err = f.svc.SuggestQuestions(f.ctx, f.ev1, "missing", "security")
	require.ErrorIs(t, err, service.ErrNotFound)

	// без генератора список пустой, но не nil
	qs, err := f.svc.SuggestQuestions(f.ctx, f.ev1, r.ID, "security")
	require.NoError(t, err)
	require.NotNil(t, qs)
	require.Empty(t, qs)
}
