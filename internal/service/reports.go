package service

import (
	"context"

	"procurement/internal/reports"
	"procurement/models"
)

// ReportData менеджер видит свои RFP, руководитель и ИТ-администратор видят все
func (s *Service) ReportData(ctx context.Context, actor models.User) (reports.Dataset, error) {
	var d reports.Dataset
	f := models.RFPFilter{}
	switch actor.Role {
	case models.RoleProcurementManager:
		f.CreatedBy = actor.ID
	case models.RoleDeptHead, models.RoleITAdmin:
	default:
		return d, forbidden("view reports")
	}

	rfps, err := s.store.ListRFPs(ctx, f)
	if err != nil {
		return d, err
	}
	rfpIDs := make([]string, 0, len(rfps))
	for _, r := range rfps {
		rfpIDs = append(rfpIDs, r.ID)
	}
	proposals, err := s.store.ListProposals(ctx, models.ProposalFilter{RFPIDs: rfpIDs})
	if err != nil {
		return d, err
	}
	proposalIDs := make([]string, 0, len(proposals))
	vendorIDs := make([]string, 0, len(proposals))
	seen := map[string]bool{}
	for _, p := range proposals {
		proposalIDs = append(proposalIDs, p.ID)
		if !seen[p.VendorID] {
			seen[p.VendorID] = true
			vendorIDs = append(vendorIDs, p.VendorID)
		}
	}
	evals, err := s.store.ListEvaluations(ctx, models.EvaluationFilter{ProposalIDs: proposalIDs})
	if err != nil {
		return d, err
	}
	vendors, err := s.store.ListVendors(ctx, models.VendorFilter{IDs: vendorIDs})
	if err != nil {
		return d, err
	}
	return reports.Dataset{RFPs: rfps, Proposals: proposals, Evaluations: evals, Vendors: vendors}, nil
}

func (s *Service) Scorecards(ctx context.Context, actor models.User, rfpID string) ([]reports.Scorecard, error) {
	r, err := s.store.GetRFP(ctx, rfpID)
	if err != nil {
		return nil, lookup("rfp", err)
	}
	proposals, err := s.store.ListProposals(ctx, models.ProposalFilter{RFPIDs: []string{r.ID}})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(proposals))
	vendorIDs := make([]string, 0, len(proposals))
	for _, p := range proposals {
		ids = append(ids, p.ID)
		vendorIDs = append(vendorIDs, p.VendorID)
	}
	evals, err := s.store.ListEvaluations(ctx, models.EvaluationFilter{ProposalIDs: ids})
	if err != nil {
		return nil, err
	}
	vendors, err := s.store.ListVendors(ctx, models.VendorFilter{IDs: vendorIDs})
	if err != nil {
		return nil, err
	}
	d := reports.Dataset{RFPs: []models.RFP{*r}, Proposals: proposals, Evaluations: evals, Vendors: vendors}
	return reports.Scorecards(d, r.ID), nil
}
