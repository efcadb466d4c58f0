package service

import (
	"context"

	"procurement/models"
)

// Storage реализуется db.Storage и memstore.Store
type Storage interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, f models.UserFilter) ([]models.User, error)

	CreateRFP(ctx context.Context, r *models.RFP) error
	GetRFP(ctx context.Context, id string) (*models.RFP, error)
	UpdateRFP(ctx context.Context, r *models.RFP) error
	ListRFPs(ctx context.Context, f models.RFPFilter) ([]models.RFP, error)

	CreateVendor(ctx context.Context, v *models.Vendor) error
	GetVendor(ctx context.Context, id string) (*models.Vendor, error)
	UpdateVendor(ctx context.Context, v *models.Vendor) error
	ListVendors(ctx context.Context, f models.VendorFilter) ([]models.Vendor, error)

	CreateProposal(ctx context.Context, p *models.Proposal) error
	GetProposal(ctx context.Context, id string) (*models.Proposal, error)
	UpdateProposal(ctx context.Context, p *models.Proposal) error
	ListProposals(ctx context.Context, f models.ProposalFilter) ([]models.Proposal, error)

	CreateEvaluation(ctx context.Context, e *models.Evaluation) (bool, error)
	GetEvaluation(ctx context.Context, id string) (*models.Evaluation, error)
	UpdateEvaluation(ctx context.Context, e *models.Evaluation) error
	ListEvaluations(ctx context.Context, f models.EvaluationFilter) ([]models.Evaluation, error)

	AddTeamMember(ctx context.Context, m *models.TeamMember) error
	RemoveTeamMember(ctx context.Context, rfpID, userID string) error
	ListTeamMembers(ctx context.Context, rfpID string) ([]models.TeamMember, error)

	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID string) error
	CountUnreadNotifications(ctx context.Context, userID string) (int, error)

	CreateTemplate(ctx context.Context, t *models.Template) error
	GetTemplate(ctx context.Context, id string) (*models.Template, error)
	ListTemplates(ctx context.Context, activeOnly bool) ([]models.Template, error)
}
