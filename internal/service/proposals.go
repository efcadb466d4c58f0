package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"procurement/internal/scoring"
	"procurement/internal/workflow"
	"procurement/models"
)

type ProposalInput struct {
	RFPID       string `json:"rfpId" validate:"required"`
	VendorID    string `json:"vendorId" validate:"required"`
	DocumentRef string `json:"documentRef" validate:"max=1000"`
	Summary     string `json:"summary" validate:"max=20000"`
	// Text содержимое документа для автоматического резюме
	Text    string `json:"text"`
	Analyze bool   `json:"analyze"`
}

// ProposalReview предложение вместе с оценками и сводкой по ним
type ProposalReview struct {
	Proposal    models.Proposal     `json:"proposal"`
	Vendor      *models.Vendor      `json:"vendor,omitempty"`
	Evaluations []models.Evaluation `json:"evaluations"`
	Summary     scoring.Summary     `json:"summary"`
}

// CreateProposal регистрирует предложение, создаёт оценки для оценщиков
// команды и переводит RFP в evaluation при первом предложении.
func (s *Service) CreateProposal(ctx context.Context, actor models.User, in ProposalInput) (*models.Proposal, error) {
	if err := requireRole(actor, "register proposals", models.RoleProcurementManager); err != nil {
		return nil, err
	}
	if err := s.validateStruct(in); err != nil {
		return nil, err
	}
	r, err := s.store.GetRFP(ctx, in.RFPID)
	if err != nil {
		return nil, lookup("rfp", err)
	}
	if !workflow.AcceptsProposals(*r) {
		return nil, fmt.Errorf("%w: rfp %s does not accept proposals", workflow.ErrInvalidTransition, r.Status)
	}
	if _, err := s.store.GetVendor(ctx, in.VendorID); err != nil {
		return nil, lookup("vendor", err)
	}

	p := &models.Proposal{
		RFPID:       in.RFPID,
		VendorID:    in.VendorID,
		DocumentRef: in.DocumentRef,
		Summary:     in.Summary,
		Status:      models.ProposalSubmitted,
		CreatedBy:   actor.ID,
	}
	if in.Analyze && strings.TrimSpace(p.Summary) == "" {
		p.Summary = s.gen.AnalyzeProposal(ctx, in.Text, criteriaText(*r))
	}
	if err := s.store.CreateProposal(ctx, p); err != nil {
		return nil, fmt.Errorf("create proposal: %w", err)
	}

	evaluators, err := s.evaluatorIDs(ctx, r.ID)
	if err != nil {
		return nil, fmt.Errorf("load rfp team: %w", err)
	}
	for _, id := range evaluators {
		if _, err := s.assign(ctx, *p, *r, id); err != nil {
			return nil, err
		}
	}

	next, err := workflow.ApplyRFP(*r, workflow.RFPProposalReceived)
	if err != nil {
		return nil, err
	}
	if next.Status != r.Status {
		if err := s.store.UpdateRFP(ctx, &next); err != nil {
			return nil, fmt.Errorf("update rfp: %w", err)
		}
		transitioned("rfp", string(workflow.RFPProposalReceived))
	}

	s.log.WithFields(logrus.Fields{
		"proposal_id": p.ID, "rfp_id": r.ID, "evaluators": len(evaluators),
	}).Info("proposal registered")
	return p, nil
}

// assign создаёт оценку для пары (предложение, оценщик) не более одного раза
func (s *Service) assign(ctx context.Context, p models.Proposal, r models.RFP, evaluatorID string) (*models.Evaluation, error) {
	e := &models.Evaluation{ProposalID: p.ID, EvaluatorID: evaluatorID, Status: models.EvaluationPending}
	created, err := s.store.CreateEvaluation(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("create evaluation: %w", err)
	}
	if created {
		s.send(evaluatorID, models.NotifyEvaluationRequested, "Evaluation requested",
			fmt.Sprintf("A proposal for RFP %q is waiting for your evaluation.", r.Title))
	}
	return e, nil
}

func criteriaText(r models.RFP) string {
	var b strings.Builder
	w := r.Weights()
	fmt.Fprintf(&b, "Functional (%d%%): %s\n", w.Functional, r.FunctionalCriteria)
	fmt.Fprintf(&b, "Security (%d%%): %s\n", w.Security, r.SecurityCriteria)
	fmt.Fprintf(&b, "Business (%d%%): budget %s, duration %s, experience %s",
		w.Business, r.BusinessCriteria.BudgetRange, r.BusinessCriteria.Duration, r.BusinessCriteria.RequiredExperience)
	return b.String()
}

// AssignEvaluator повторный вызов для той же пары возвращает существующую оценку
func (s *Service) AssignEvaluator(ctx context.Context, actor models.User, proposalID, evaluatorID string) (*models.Evaluation, error) {
	if err := requireRole(actor, "assign evaluators", models.RoleProcurementManager); err != nil {
		return nil, err
	}
	p, err := s.store.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, lookup("proposal", err)
	}
	if err := workflow.CanAssignEvaluator(*p); err != nil {
		return nil, err
	}
	if _, err := s.store.GetUser(ctx, evaluatorID); err != nil {
		return nil, lookup("user", err)
	}
	r, err := s.store.GetRFP(ctx, p.RFPID)
	if err != nil {
		return nil, lookup("rfp", err)
	}
	return s.assign(ctx, *p, *r, evaluatorID)
}

func (s *Service) GetProposal(ctx context.Context, id string) (*models.Proposal, error) {
	p, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return nil, lookup("proposal", err)
	}
	return p, nil
}

func (s *Service) ListProposalsForRFP(ctx context.Context, rfpID string) ([]models.Proposal, error) {
	if _, err := s.store.GetRFP(ctx, rfpID); err != nil {
		return nil, lookup("rfp", err)
	}
	return s.store.ListProposals(ctx, models.ProposalFilter{RFPIDs: []string{rfpID}})
}

func (s *Service) ListProposalsForRFPs(ctx context.Context, rfpIDs []string) ([]models.Proposal, error) {
	if rfpIDs == nil {
		rfpIDs = []string{}
	}
	return s.store.ListProposals(ctx, models.ProposalFilter{RFPIDs: rfpIDs})
}

// ReviewProposal сводка считается заново при каждом чтении
func (s *Service) ReviewProposal(ctx context.Context, id string) (*ProposalReview, error) {
	p, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return nil, lookup("proposal", err)
	}
	evals, err := s.store.ListEvaluations(ctx, models.EvaluationFilter{ProposalIDs: []string{p.ID}})
	if err != nil {
		return nil, err
	}
	review := &ProposalReview{Proposal: *p, Evaluations: evals, Summary: scoring.Aggregate(evals)}
	if v, err := s.store.GetVendor(ctx, p.VendorID); err == nil {
		review.Vendor = v
	}
	return review, nil
}

// SendForApproval перечитывает оценки в момент решения.
func (s *Service) SendForApproval(ctx context.Context, actor models.User, id string) (*models.Proposal, error) {
	if err := requireRole(actor, "send proposals for approval", models.RoleProcurementManager); err != nil {
		return nil, err
	}
	p, err := s.applyProposal(ctx, actor, id, workflow.ProposalSendForApproval)
	if err != nil {
		return nil, err
	}
	s.sendToRole(ctx, models.RoleDeptHead, models.NotifyApprovalRequested,
		"Proposal awaiting approval", "A fully evaluated proposal is waiting for your decision.")
	return p, nil
}

func (s *Service) ApproveProposal(ctx context.Context, actor models.User, id string) (*models.Proposal, error) {
	if err := requireRole(actor, "approve proposals", models.RoleDeptHead); err != nil {
		return nil, err
	}
	p, err := s.applyProposal(ctx, actor, id, workflow.ProposalApprove)
	if err != nil {
		return nil, err
	}
	s.send(p.CreatedBy, models.NotifyProposalApproved, "Proposal approved", "The proposal was shortlisted.")
	return p, nil
}

func (s *Service) RejectProposal(ctx context.Context, actor models.User, id, reason string) (*models.Proposal, error) {
	if err := requireRole(actor, "reject proposals", models.RoleDeptHead); err != nil {
		return nil, err
	}
	p, err := s.applyProposal(ctx, actor, id, workflow.ProposalReject)
	if err != nil {
		return nil, err
	}
	msg := "The proposal was rejected."
	if reason != "" {
		msg += " Reason: " + reason
	}
	s.send(p.CreatedBy, models.NotifyProposalRejected, "Proposal rejected", msg)
	return p, nil
}

func (s *Service) SendBackProposal(ctx context.Context, actor models.User, id string) (*models.Proposal, error) {
	if err := requireRole(actor, "send proposals back", models.RoleDeptHead); err != nil {
		return nil, err
	}
	return s.applyProposal(ctx, actor, id, workflow.ProposalSendBack)
}

func (s *Service) applyProposal(ctx context.Context, actor models.User, id string, ev workflow.ProposalEvent) (*models.Proposal, error) {
	p, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return nil, lookup("proposal", err)
	}
	var progress workflow.Progress
	if ev == workflow.ProposalSendForApproval {
		evals, err := s.store.ListEvaluations(ctx, models.EvaluationFilter{ProposalIDs: []string{p.ID}})
		if err != nil {
			return nil, err
		}
		sum := scoring.Aggregate(evals)
		progress = workflow.Progress{Completed: sum.Completed, Total: sum.Total}
	}
	next, err := workflow.ApplyProposal(*p, ev, progress)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateProposal(ctx, &next); err != nil {
		return nil, fmt.Errorf("update proposal: %w", err)
	}
	transitioned("proposal", string(ev))
	s.log.WithFields(logrus.Fields{
		"proposal_id": id, "event": ev, "from": p.Status, "to": next.Status,
		"awaiting_approval": next.AwaitingApproval, "user_id": actor.ID,
	}).Info("proposal transition")
	return &next, nil
}
