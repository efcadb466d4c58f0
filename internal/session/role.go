package session

import (
	"context"
	"fmt"

	"procurement/models"
)

// Страницы интерфейса
const (
	PageDashboard       = "dashboard"
	PageMyRFPs          = "my_rfps"
	PageCreateRFP       = "create_rfp"
	PageVendors         = "vendors"
	PageProposals       = "proposals"
	PageEvaluations     = "evaluations"
	PageReports         = "reports"
	PageApprovals       = "approvals"
	PageMyEvaluations   = "my_evaluations"
	PageITEvaluations   = "it_evaluations"
	PageSecurityReviews = "security_reviews"
	PagePendingTasks    = "pending_tasks"
	PageNotifications   = "notifications"

	PageRFPDetail      = "rfp_detail"
	PageProposalDetail = "proposal_detail"
	PageEvaluationForm = "evaluation_form"
)

var detailPages = map[string]bool{
	PageRFPDetail:      true,
	PageProposalDetail: true,
	PageEvaluationForm: true,
	PageNotifications:  true,
}

type MenuItem struct {
	Page  string `json:"page"`
	Label string `json:"label"`
}

type Card struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

type Dashboard struct {
	Role       string              `json:"role"`
	Cards      []Card              `json:"cards"`
	RecentRFPs []models.RFP        `json:"recentRfps,omitempty"`
	Tasks      []models.Evaluation `json:"tasks,omitempty"`
}

// DashboardSource данные для панелей; реализуется service.Service
type DashboardSource interface {
	ListMyRFPs(ctx context.Context, actor models.User) ([]models.RFP, error)
	ListMyEvaluations(ctx context.Context, actor models.User, status string) ([]models.Evaluation, error)
	ListProposalsForRFPs(ctx context.Context, rfpIDs []string) ([]models.Proposal, error)
	ApprovalCounts(ctx context.Context, actor models.User) (int, int, error)
}

// Role is a closed set of variants; only this package can add one.
type Role interface {
	Name() string
	Menu(unread int) []MenuItem
	Dashboard(ctx context.Context, src DashboardSource, u models.User) (*Dashboard, error)

	allows(page string) bool
}

// RoleFor возвращает вариант роли по имени из профиля пользователя
func RoleFor(name string) (Role, error) {
	switch name {
	case models.RoleProcurementManager:
		return ProcurementManager{}, nil
	case models.RoleDeptHead:
		return DeptHead{}, nil
	case models.RoleITAdmin:
		return ITAdmin{}, nil
	case models.RoleEvaluator:
		return Evaluator{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRole, name)
}

func menu(unread int, items ...MenuItem) []MenuItem {
	items = append([]MenuItem{{Page: PageDashboard, Label: "Dashboard"}}, items...)
	return append(items, MenuItem{Page: PageNotifications, Label: fmt.Sprintf("Notifications (%d)", unread)})
}

func allows(r Role, page string) bool {
	if detailPages[page] {
		return true
	}
	for _, item := range r.Menu(0) {
		if item.Page == page {
			return true
		}
	}
	return false
}

const recentLimit = 5

type ProcurementManager struct{}

func (ProcurementManager) Name() string { return models.RoleProcurementManager }

func (ProcurementManager) Menu(unread int) []MenuItem {
	return menu(unread,
		MenuItem{Page: PageMyRFPs, Label: "My RFPs"},
		MenuItem{Page: PageCreateRFP, Label: "Create RFP"},
		MenuItem{Page: PageVendors, Label: "Vendors"},
		MenuItem{Page: PageProposals, Label: "Proposals"},
		MenuItem{Page: PageEvaluations, Label: "Evaluations"},
		MenuItem{Page: PageReports, Label: "Reports"},
	)
}

func (r ProcurementManager) allows(page string) bool { return allows(r, page) }

func (r ProcurementManager) Dashboard(ctx context.Context, src DashboardSource, u models.User) (*Dashboard, error) {
	rfps, err := src.ListMyRFPs(ctx, u)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rfps))
	var active, drafts, pending int
	for _, rfp := range rfps {
		ids = append(ids, rfp.ID)
		switch rfp.Status {
		case models.RFPPublished, models.RFPEvaluation:
			active++
		case models.RFPDraft:
			drafts++
		case models.RFPPendingApproval:
			pending++
		}
	}
	proposals, err := src.ListProposalsForRFPs(ctx, ids)
	if err != nil {
		return nil, err
	}
	var awaiting int
	for _, p := range proposals {
		if p.AwaitingApproval {
			awaiting++
		}
	}

	recent := rfps
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	return &Dashboard{
		Role: r.Name(),
		Cards: []Card{
			{Label: "Active RFPs", Value: active},
			{Label: "Draft RFPs", Value: drafts},
			{Label: "RFPs Pending Approval", Value: pending},
			{Label: "Proposals Received", Value: len(proposals)},
			{Label: "Proposals Awaiting Approval", Value: awaiting},
		},
		RecentRFPs: recent,
	}, nil
}

type DeptHead struct{}

func (DeptHead) Name() string { return models.RoleDeptHead }

func (DeptHead) Menu(unread int) []MenuItem {
	return menu(unread,
		MenuItem{Page: PageApprovals, Label: "Approvals"},
		MenuItem{Page: PageMyEvaluations, Label: "My Evaluations"},
		MenuItem{Page: PageReports, Label: "Reports"},
	)
}

func (r DeptHead) allows(page string) bool { return allows(r, page) }

func (r DeptHead) Dashboard(ctx context.Context, src DashboardSource, u models.User) (*Dashboard, error) {
	rfps, proposals, err := src.ApprovalCounts(ctx, u)
	if err != nil {
		return nil, err
	}
	tasks, err := src.ListMyEvaluations(ctx, u, models.EvaluationPending)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Role: r.Name(),
		Cards: []Card{
			{Label: "RFPs to Approve", Value: rfps},
			{Label: "Proposals to Approve", Value: proposals},
			{Label: "My Pending Evaluations", Value: len(tasks)},
		},
		Tasks: tasks,
	}, nil
}

type ITAdmin struct{}

func (ITAdmin) Name() string { return models.RoleITAdmin }

func (ITAdmin) Menu(unread int) []MenuItem {
	return menu(unread,
		MenuItem{Page: PageITEvaluations, Label: "IT Evaluations"},
		MenuItem{Page: PageSecurityReviews, Label: "Security Reviews"},
		MenuItem{Page: PageReports, Label: "Reports"},
	)
}

func (r ITAdmin) allows(page string) bool { return allows(r, page) }

func (r ITAdmin) Dashboard(ctx context.Context, src DashboardSource, u models.User) (*Dashboard, error) {
	return evaluationDashboard(ctx, src, u, r.Name(), "Pending IT Evaluations", "Completed Security Reviews")
}

type Evaluator struct{}

func (Evaluator) Name() string { return models.RoleEvaluator }

func (Evaluator) Menu(unread int) []MenuItem {
	return menu(unread,
		MenuItem{Page: PageMyEvaluations, Label: "My Evaluations"},
		MenuItem{Page: PagePendingTasks, Label: "Pending Tasks"},
	)
}

func (r Evaluator) allows(page string) bool { return allows(r, page) }

func (r Evaluator) Dashboard(ctx context.Context, src DashboardSource, u models.User) (*Dashboard, error) {
	return evaluationDashboard(ctx, src, u, r.Name(), "Pending Evaluations", "Completed Evaluations")
}

func evaluationDashboard(ctx context.Context, src DashboardSource, u models.User, role, pendingLabel, doneLabel string) (*Dashboard, error) {
	pending, err := src.ListMyEvaluations(ctx, u, models.EvaluationPending)
	if err != nil {
		return nil, err
	}
	done, err := src.ListMyEvaluations(ctx, u, models.EvaluationCompleted)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Role: role,
		Cards: []Card{
			{Label: pendingLabel, Value: len(pending)},
			{Label: doneLabel, Value: len(done)},
		},
		Tasks: pending,
	}, nil
}
