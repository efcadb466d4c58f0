package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"procurement/internal/scoring"
	"procurement/internal/workflow"
	"procurement/models"
)

type EvaluationInput struct {
	FunctionalScore   int    `json:"functionalScore" validate:"min=0,max=100"`
	SecurityScore     int    `json:"securityScore" validate:"min=0,max=100"`
	BusinessScore     int    `json:"businessScore" validate:"min=0,max=100"`
	OverallScore      *int   `json:"overallScore" validate:"omitempty,min=0,max=100"`
	Recommendation    string `json:"recommendation" validate:"omitempty,oneof=recommend conditional not_recommend"`
	FunctionalComment string `json:"functionalComment" validate:"max=5000"`
	SecurityComment   string `json:"securityComment" validate:"max=5000"`
	BusinessComment   string `json:"businessComment" validate:"max=5000"`
	OverallComment    string `json:"overallComment" validate:"max=5000"`
	// Submit false сохраняет черновик
	Submit bool `json:"submit"`
}

// EvaluationView оценка с весами RFP и рассчитанной подсказкой
type EvaluationView struct {
	Evaluation models.Evaluation `json:"evaluation"`
	Proposal   models.Proposal   `json:"proposal"`
	RFPTitle   string            `json:"rfpTitle"`
	Weights    models.Weights    `json:"weights"`
	Suggested  int               `json:"suggestedOverall"`
}

func (s *Service) ListMyEvaluations(ctx context.Context, actor models.User, status string) ([]models.Evaluation, error) {
	if status != "" && status != models.EvaluationPending && status != models.EvaluationCompleted {
		return nil, validationError("status must be pending or completed")
	}
	return s.store.ListEvaluations(ctx, models.EvaluationFilter{EvaluatorID: actor.ID, Status: status})
}

func (s *Service) GetEvaluation(ctx context.Context, actor models.User, id string) (*EvaluationView, error) {
	e, err := s.store.GetEvaluation(ctx, id)
	if err != nil {
		return nil, lookup("evaluation", err)
	}
	if e.EvaluatorID != actor.ID && actor.Role != models.RoleProcurementManager && actor.Role != models.RoleDeptHead {
		return nil, forbidden("evaluation belongs to another evaluator")
	}
	p, err := s.store.GetProposal(ctx, e.ProposalID)
	if err != nil {
		return nil, lookup("proposal", err)
	}
	r, err := s.store.GetRFP(ctx, p.RFPID)
	if err != nil {
		return nil, lookup("rfp", err)
	}
	w := r.Weights()
	return &EvaluationView{
		Evaluation: *e,
		Proposal:   *p,
		RFPTitle:   r.Title,
		Weights:    w,
		Suggested:  scoring.Calculate(e.FunctionalScore, e.SecurityScore, e.BusinessScore, w),
	}, nil
}

// SaveEvaluation сохраняет черновик или отправляет оценку. После отправки
// предложение переходит в under_review.
func (s *Service) SaveEvaluation(ctx context.Context, actor models.User, id string, in EvaluationInput) (*models.Evaluation, error) {
	e, err := s.store.GetEvaluation(ctx, id)
	if err != nil {
		return nil, lookup("evaluation", err)
	}
	if e.EvaluatorID != actor.ID {
		return nil, forbidden("evaluation belongs to another evaluator")
	}
	p, err := s.store.GetProposal(ctx, e.ProposalID)
	if err != nil {
		return nil, lookup("proposal", err)
	}
	if err := workflow.CanEditEvaluation(*e, *p); err != nil {
		return nil, err
	}
	if err := s.validateStruct(in); err != nil {
		return nil, err
	}
	if in.Submit && in.Recommendation == "" {
		return nil, validationError("recommendation is required on submit")
	}
	r, err := s.store.GetRFP(ctx, p.RFPID)
	if err != nil {
		return nil, lookup("rfp", err)
	}

	e.FunctionalScore = in.FunctionalScore
	e.SecurityScore = in.SecurityScore
	e.BusinessScore = in.BusinessScore
	if in.OverallScore != nil {
		e.OverallScore = *in.OverallScore
	} else {
		e.OverallScore = scoring.Calculate(in.FunctionalScore, in.SecurityScore, in.BusinessScore, r.Weights())
	}
	e.Recommendation = nil
	if in.Recommendation != "" {
		rec := in.Recommendation
		e.Recommendation = &rec
	}
	e.FunctionalComment = in.FunctionalComment
	e.SecurityComment = in.SecurityComment
	e.BusinessComment = in.BusinessComment
	e.OverallComment = in.OverallComment
	if in.Submit {
		now := s.now()
		e.Status = models.EvaluationCompleted
		e.SubmittedAt = &now
	}

	if err := s.store.UpdateEvaluation(ctx, e); err != nil {
		return nil, fmt.Errorf("update evaluation: %w", err)
	}
	if !in.Submit {
		return e, nil
	}

	transitioned("evaluation", "submit")
	next, err := workflow.ApplyProposal(*p, workflow.ProposalEvaluationCompleted, workflow.Progress{})
	if err != nil {
		return nil, err
	}
	if next.Status != p.Status {
		if err := s.store.UpdateProposal(ctx, &next); err != nil {
			return nil, fmt.Errorf("update proposal: %w", err)
		}
		transitioned("proposal", string(workflow.ProposalEvaluationCompleted))
	}
	s.log.WithFields(logrus.Fields{
		"evaluation_id": e.ID, "proposal_id": p.ID, "overall": e.OverallScore,
	}).Info("evaluation submitted")
	return e, nil
}
