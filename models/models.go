package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Роли пользователей
const (
	RoleProcurementManager = "procurement_manager"
	RoleEvaluator          = "evaluator"
	RoleDeptHead           = "dept_head"
	RoleITAdmin            = "it_admin"
)

// Статусы RFP
const (
	RFPDraft           = "draft"
	RFPPendingApproval = "pending_approval"
	RFPApproved        = "approved"
	RFPPublished       = "published"
	RFPEvaluation      = "evaluation"
	RFPCompleted       = "completed"
	RFPCancelled       = "cancelled"
)

// Статусы предложения
const (
	ProposalSubmitted   = "submitted"
	ProposalUnderReview = "under_review"
	ProposalShortlisted = "shortlisted"
	ProposalRejected    = "rejected"
)

// Статусы оценки
const (
	EvaluationPending   = "pending"
	EvaluationCompleted = "completed"
)

const (
	Recommend     = "recommend"
	Conditional   = "conditional"
	NotRecommend  = "not_recommend"
	TeamEvaluator = "evaluator"
	TeamApprover  = "approver"
)

// Типы уведомлений
const (
	NotifyProposalApproved    = "proposal_approved"
	NotifyProposalRejected    = "proposal_rejected"
	NotifyEvaluationRequested = "evaluation_requested"
	NotifyApprovalRequested   = "approval_requested"
	NotifyRFPApproved         = "rfp_approved"
	NotifyRFPRejected         = "rfp_rejected"
)

// Ошибки хранилища
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// Сущность Пользователя
type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email" validate:"required,email"`
	FullName  string    `db:"full_name" json:"fullName" validate:"required,max=200"`
	Role      string    `db:"role" json:"role" validate:"required,oneof=procurement_manager evaluator dept_head it_admin"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Weights веса категорий в процентах, сумма должна быть ровно 100
type Weights struct {
	Functional int `json:"functional"`
	Security   int `json:"security"`
	Business   int `json:"business"`
}

// BusinessCriteria хранится в JSONB
type BusinessCriteria struct {
	BudgetRange            string `json:"budgetRange,omitempty"`
	Duration               string `json:"duration,omitempty"`
	RequiredExperience     string `json:"requiredExperience,omitempty"`
	LocationPreference     string `json:"locationPreference,omitempty"`
	ComplianceRequirements string `json:"complianceRequirements,omitempty"`
	PreferredStartDate     string `json:"preferredStartDate,omitempty"`
}

func (c BusinessCriteria) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *BusinessCriteria) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*c = BusinessCriteria{}
		return nil
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("business criteria: unsupported type %T", src)
	}
}

// Сущность RFP
type RFP struct {
	ID                 string           `db:"id" json:"id"`
	Title              string           `db:"title" json:"title"`
	Description        string           `db:"description" json:"description"`
	Content            string           `db:"content" json:"content"`
	DueDate            *time.Time       `db:"due_date" json:"dueDate,omitempty"`
	FunctionalWeight   int              `db:"functional_weight" json:"functionalWeight"`
	SecurityWeight     int              `db:"security_weight" json:"securityWeight"`
	BusinessWeight     int              `db:"business_weight" json:"businessWeight"`
	FunctionalCriteria string           `db:"functional_criteria" json:"functionalCriteria"`
	SecurityCriteria   string           `db:"security_criteria" json:"securityCriteria"`
	BusinessCriteria   BusinessCriteria `db:"business_criteria" json:"businessCriteria"`
	Status             string           `db:"status" json:"status"`
	CreatedBy          string           `db:"created_by" json:"createdBy"`
	ApprovedBy         *string          `db:"approved_by" json:"approvedBy,omitempty"`
	CreatedAt          time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time        `db:"updated_at" json:"updatedAt"`
}

func (r RFP) Weights() Weights {
	return Weights{Functional: r.FunctionalWeight, Security: r.SecurityWeight, Business: r.BusinessWeight}
}

func (r *RFP) SetWeights(w Weights) {
	r.FunctionalWeight = w.Functional
	r.SecurityWeight = w.Security
	r.BusinessWeight = w.Business
}

// Сущность Поставщика
type Vendor struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name" validate:"required,max=200"`
	ContactEmail  string    `db:"contact_email" json:"contactEmail" validate:"required,email"`
	ContactPerson string    `db:"contact_person" json:"contactPerson" validate:"max=200"`
	Phone         string    `db:"phone" json:"phone" validate:"max=50"`
	Website       string    `db:"website" json:"website" validate:"omitempty,url"`
	Address       string    `db:"address" json:"address" validate:"max=500"`
	CreatedBy     string    `db:"created_by" json:"createdBy"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// Сущность Предложения
type Proposal struct {
	ID               string    `db:"id" json:"id"`
	RFPID            string    `db:"rfp_id" json:"rfpId"`
	VendorID         string    `db:"vendor_id" json:"vendorId"`
	DocumentRef      string    `db:"document_ref" json:"documentRef"`
	Summary          string    `db:"summary" json:"summary"`
	Status           string    `db:"status" json:"status"`
	AwaitingApproval bool      `db:"awaiting_approval" json:"awaitingApproval"`
	CreatedBy        string    `db:"created_by" json:"createdBy"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

// Decided true после шортлиста или отклонения
func (p Proposal) Decided() bool {
	return p.Status == ProposalShortlisted || p.Status == ProposalRejected
}

// Сущность Оценки
type Evaluation struct {
	ID                string     `db:"id" json:"id"`
	ProposalID        string     `db:"proposal_id" json:"proposalId"`
	EvaluatorID       string     `db:"evaluator_id" json:"evaluatorId"`
	FunctionalScore   int        `db:"functional_score" json:"functionalScore"`
	SecurityScore     int        `db:"security_score" json:"securityScore"`
	BusinessScore     int        `db:"business_score" json:"businessScore"`
	OverallScore      int        `db:"overall_score" json:"overallScore"`
	Recommendation    *string    `db:"recommendation" json:"recommendation,omitempty"`
	FunctionalComment string     `db:"functional_comment" json:"functionalComment"`
	SecurityComment   string     `db:"security_comment" json:"securityComment"`
	BusinessComment   string     `db:"business_comment" json:"businessComment"`
	OverallComment    string     `db:"overall_comment" json:"overallComment"`
	Status            string     `db:"status" json:"status"`
	SubmittedAt       *time.Time `db:"submitted_at" json:"submittedAt,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updatedAt"`
}

// Участник команды RFP
type TeamMember struct {
	RFPID     string    `db:"rfp_id" json:"rfpId"`
	UserID    string    `db:"user_id" json:"userId"`
	Role      string    `db:"role" json:"role"`
	AddedBy   string    `db:"added_by" json:"addedBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Уведомление
type Notification struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Type      string    `db:"type" json:"type"`
	IsRead    bool      `db:"is_read" json:"isRead"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Шаблон RFP
type Template struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name" validate:"required,max=200"`
	Category  string    `db:"category" json:"category" validate:"max=100"`
	Content   string    `db:"content" json:"content" validate:"required"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedBy string    `db:"created_by" json:"createdBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
