package service

import (
	"context"

	"procurement/internal/scoring"
	"procurement/models"
)

type ApprovalQueue struct {
	RFPs      []models.RFP     `json:"rfps"`
	Proposals []ProposalReview `json:"proposals"`
}

// PendingApprovals очередь руководителя: RFP на утверждении и предложения с флагом
func (s *Service) PendingApprovals(ctx context.Context, actor models.User) (*ApprovalQueue, error) {
	if err := requireRole(actor, "view approvals", models.RoleDeptHead); err != nil {
		return nil, err
	}
	rfps, err := s.store.ListRFPs(ctx, models.RFPFilter{Statuses: []string{models.RFPPendingApproval}})
	if err != nil {
		return nil, err
	}
	flagged := true
	proposals, err := s.store.ListProposals(ctx, models.ProposalFilter{
		Statuses:         []string{models.ProposalUnderReview},
		AwaitingApproval: &flagged,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(proposals))
	for _, p := range proposals {
		ids = append(ids, p.ID)
	}
	evals, err := s.store.ListEvaluations(ctx, models.EvaluationFilter{ProposalIDs: ids})
	if err != nil {
		return nil, err
	}
	byProposal := make(map[string][]models.Evaluation)
	for _, e := range evals {
		byProposal[e.ProposalID] = append(byProposal[e.ProposalID], e)
	}

	q := &ApprovalQueue{RFPs: rfps, Proposals: make([]ProposalReview, 0, len(proposals))}
	for _, p := range proposals {
		pe := byProposal[p.ID]
		q.Proposals = append(q.Proposals, ProposalReview{
			Proposal:    p,
			Evaluations: pe,
			Summary:     scoring.Aggregate(pe),
		})
	}
	return q, nil
}

// ApprovalCounts используется на панели руководителя
func (s *Service) ApprovalCounts(ctx context.Context, actor models.User) (int, int, error) {
	q, err := s.PendingApprovals(ctx, actor)
	if err != nil {
		return 0, 0, err
	}
	return len(q.RFPs), len(q.Proposals), nil
}
