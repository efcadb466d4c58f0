package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"procurement/internal/contentgen"
	"procurement/internal/scoring"
	"procurement/internal/workflow"
	"procurement/models"
)

// DefaultWeights применяются, если веса не переданы
var DefaultWeights = models.Weights{Functional: 40, Security: 30, Business: 30}

type RFPInput struct {
	Title              string                  `json:"title" validate:"required,max=200"`
	Description        string                  `json:"description" validate:"max=5000"`
	Content            string                  `json:"content"`
	DueDate            *time.Time              `json:"dueDate"`
	Weights            *models.Weights         `json:"weights"`
	FunctionalCriteria string                  `json:"functionalCriteria"`
	SecurityCriteria   string                  `json:"securityCriteria"`
	BusinessCriteria   models.BusinessCriteria `json:"businessCriteria"`
	TemplateID         string                  `json:"templateId"`
	UseAI              bool                    `json:"useAi"`
}

// RFPPatch правка черновика: nil означает "оставить как есть"
type RFPPatch struct {
	Title              *string                  `json:"title" validate:"omitempty,max=200"`
	Description        *string                  `json:"description" validate:"omitempty,max=5000"`
	Content            *string                  `json:"content"`
	DueDate            *time.Time               `json:"dueDate"`
	Weights            *models.Weights          `json:"weights"`
	FunctionalCriteria *string                  `json:"functionalCriteria"`
	SecurityCriteria   *string                  `json:"securityCriteria"`
	BusinessCriteria   *models.BusinessCriteria `json:"businessCriteria"`
	TemplateID         string                   `json:"templateId"`
	UseAI              bool                     `json:"useAi"`
}

type RFPQuery struct {
	Mine     bool
	Statuses []string
	Limit    int
	Offset   int
}

// weights: по умолчанию только если поле не передано, явные нули проверяются как есть
func (in RFPInput) weights() models.Weights {
	if in.Weights == nil {
		return DefaultWeights
	}
	return *in.Weights
}

func (s *Service) CreateRFP(ctx context.Context, actor models.User, in RFPInput) (*models.RFP, error) {
	if err := requireRole(actor, "create rfp", models.RoleProcurementManager); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := s.validateStruct(in); err != nil {
		return nil, err
	}
	w := in.weights()
	if err := validateWeights(w); err != nil {
		return nil, err
	}

	r := &models.RFP{
		Title:              in.Title,
		Description:        in.Description,
		Content:            in.Content,
		DueDate:            in.DueDate,
		FunctionalCriteria: in.FunctionalCriteria,
		SecurityCriteria:   in.SecurityCriteria,
		BusinessCriteria:   in.BusinessCriteria,
		Status:             models.RFPDraft,
		CreatedBy:          actor.ID,
	}
	r.SetWeights(w)

	content, err := s.draftContent(ctx, in)
	if err != nil {
		return nil, err
	}
	r.Content = content

	if err := s.store.CreateRFP(ctx, r); err != nil {
		return nil, fmt.Errorf("create rfp: %w", err)
	}
	s.log.WithFields(logrus.Fields{"rfp_id": r.ID, "user_id": actor.ID}).Info("rfp created")
	return r, nil
}

// draftContent: шаблон задаёт основу, генерация (если запрошена) её заменяет
func (s *Service) draftContent(ctx context.Context, in RFPInput) (string, error) {
	template := ""
	if in.TemplateID != "" {
		tpl, err := s.store.GetTemplate(ctx, in.TemplateID)
		if err != nil {
			return "", lookup("template", err)
		}
		template = tpl.Content
	}
	if in.UseAI {
		return s.gen.DraftRFP(ctx, contentgen.DraftRequest{
			Title:       in.Title,
			Description: in.Description,
			Template:    template,
			Criteria:    in.BusinessCriteria,
		}), nil
	}
	if in.Content == "" {
		return template, nil
	}
	return in.Content, nil
}

func (s *Service) GetRFP(ctx context.Context, actor models.User, id string) (*models.RFP, error) {
	r, err := s.store.GetRFP(ctx, id)
	if err != nil {
		return nil, lookup("rfp", err)
	}
	return r, nil
}

func (s *Service) ListRFPs(ctx context.Context, actor models.User, q RFPQuery) ([]models.RFP, error) {
	f := models.RFPFilter{Statuses: q.Statuses, Limit: q.Limit, Offset: q.Offset}
	if q.Mine {
		f.CreatedBy = actor.ID
	}
	return s.store.ListRFPs(ctx, f)
}

func (s *Service) ListMyRFPs(ctx context.Context, actor models.User) ([]models.RFP, error) {
	return s.store.ListRFPs(ctx, models.RFPFilter{CreatedBy: actor.ID})
}

// UpdateRFP: сначала статус, потом автор. Не-черновик нельзя править никому.
// Меняются только переданные поля.
func (s *Service) UpdateRFP(ctx context.Context, actor models.User, id string, p RFPPatch) (*models.RFP, error) {
	r, err := s.store.GetRFP(ctx, id)
	if err != nil {
		return nil, lookup("rfp", err)
	}
	if err := workflow.CanEditRFP(*r); err != nil {
		return nil, err
	}
	if r.CreatedBy != actor.ID {
		return nil, forbidden("only the creator can edit this rfp")
	}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, validationError("title must not be empty")
		}
		p.Title = &title
	}
	if err := s.validateStruct(p); err != nil {
		return nil, err
	}
	if p.Weights != nil {
		if err := validateWeights(*p.Weights); err != nil {
			return nil, err
		}
		r.SetWeights(*p.Weights)
	}

	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.DueDate != nil {
		r.DueDate = p.DueDate
	}
	if p.FunctionalCriteria != nil {
		r.FunctionalCriteria = *p.FunctionalCriteria
	}
	if p.SecurityCriteria != nil {
		r.SecurityCriteria = *p.SecurityCriteria
	}
	if p.BusinessCriteria != nil {
		r.BusinessCriteria = *p.BusinessCriteria
	}
	if p.UseAI || p.TemplateID != "" || p.Content != nil {
		in := RFPInput{
			Title:            r.Title,
			Description:      r.Description,
			BusinessCriteria: r.BusinessCriteria,
			TemplateID:       p.TemplateID,
			UseAI:            p.UseAI,
		}
		if p.Content != nil {
			in.Content = *p.Content
		}
		content, err := s.draftContent(ctx, in)
		if err != nil {
			return nil, err
		}
		r.Content = content
	}

	if err := s.store.UpdateRFP(ctx, r); err != nil {
		return nil, fmt.Errorf("update rfp: %w", err)
	}
	return r, nil
}

func (s *Service) SubmitRFP(ctx context.Context, actor models.User, id string) (*models.RFP, error) {
	r, err := s.applyRFP(ctx, actor, id, workflow.RFPSubmit, s.creatorOnly(actor))
	if err != nil {
		return nil, err
	}
	s.sendToRole(ctx, models.RoleDeptHead, models.NotifyApprovalRequested,
		"RFP awaiting approval", fmt.Sprintf("RFP %q was submitted for approval.", r.Title))
	return r, nil
}

func (s *Service) ApproveRFP(ctx context.Context, actor models.User, id string) (*models.RFP, error) {
	r, err := s.applyRFP(ctx, actor, id, workflow.RFPApprove, deptHeadOnly(actor))
	if err != nil {
		return nil, err
	}
	s.send(r.CreatedBy, models.NotifyRFPApproved, "RFP approved",
		fmt.Sprintf("Your RFP %q was approved and can be published.", r.Title))
	return r, nil
}

func (s *Service) RejectRFP(ctx context.Context, actor models.User, id, reason string) (*models.RFP, error) {
	r, err := s.applyRFP(ctx, actor, id, workflow.RFPReject, deptHeadOnly(actor))
	if err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("Your RFP %q was returned to draft.", r.Title)
	if reason != "" {
		msg += " Reason: " + reason
	}
	s.send(r.CreatedBy, models.NotifyRFPRejected, "RFP rejected", msg)
	return r, nil
}

func (s *Service) PublishRFP(ctx context.Context, actor models.User, id string) (*models.RFP, error) {
	return s.applyRFP(ctx, actor, id, workflow.RFPPublish, s.creatorOnly(actor))
}

func (s *Service) CompleteRFP(ctx context.Context, actor models.User, id string) (*models.RFP, error) {
	return s.applyRFP(ctx, actor, id, workflow.RFPComplete, s.creatorOnly(actor))
}

func (s *Service) CancelRFP(ctx context.Context, actor models.User, id string) (*models.RFP, error) {
	return s.applyRFP(ctx, actor, id, workflow.RFPCancel, s.creatorOnly(actor))
}

func (s *Service) creatorOnly(actor models.User) func(models.RFP) error {
	return func(r models.RFP) error {
		if r.CreatedBy != actor.ID {
			return forbidden("only the creator can change this rfp")
		}
		return nil
	}
}

func deptHeadOnly(actor models.User) func(models.RFP) error {
	return func(models.RFP) error {
		return requireRole(actor, "approve rfp", models.RoleDeptHead)
	}
}

func (s *Service) applyRFP(ctx context.Context, actor models.User, id string, ev workflow.RFPEvent, allow func(models.RFP) error) (*models.RFP, error) {
	r, err := s.store.GetRFP(ctx, id)
	if err != nil {
		return nil, lookup("rfp", err)
	}
	if err := allow(*r); err != nil {
		return nil, err
	}
	next, err := workflow.ApplyRFP(*r, ev)
	if err != nil {
		if errors.Is(err, scoring.ErrWeightsSum) {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return nil, err
	}
	if next.Status == r.Status {
		return r, nil
	}
	if ev == workflow.RFPApprove {
		approver := actor.ID
		next.ApprovedBy = &approver
	}
	if err := s.store.UpdateRFP(ctx, &next); err != nil {
		return nil, fmt.Errorf("update rfp: %w", err)
	}
	transitioned("rfp", string(ev))
	s.log.WithFields(logrus.Fields{
		"rfp_id": id, "event": ev, "from": r.Status, "to": next.Status, "user_id": actor.ID,
	}).Info("rfp transition")
	return &next, nil
}

// SuggestQuestions предлагает вопросы для оценки по категории
func (s *Service) SuggestQuestions(ctx context.Context, actor models.User, rfpID, category string) ([]string, error) {
	if err := s.validate.Var(category, "required,oneof=functional security business"); err != nil {
		return nil, validationError("category must be functional, security or business")
	}
	r, err := s.store.GetRFP(ctx, rfpID)
	if err != nil {
		return nil, lookup("rfp", err)
	}
	content := r.Content
	if content == "" {
		content = r.Title + "\n\n" + r.Description
	}
	return s.gen.SuggestQuestions(ctx, content, category), nil
}
