package models

// Фильтры для выборок. Пустое поле означает отсутствие условия,
// пустой непустой срез (не nil) даёт пустой результат.

type RFPFilter struct {
	IDs       []string
	CreatedBy string
	Statuses  []string
	Limit     int
	Offset    int
}

type VendorFilter struct {
	IDs       []string
	CreatedBy string
	Limit     int
	Offset    int
}

type ProposalFilter struct {
	IDs              []string
	RFPIDs           []string
	VendorID         string
	Statuses         []string
	AwaitingApproval *bool
}

type EvaluationFilter struct {
	ProposalIDs []string
	EvaluatorID string
	Status      string
}

type UserFilter struct {
	IDs  []string
	Role string
}
