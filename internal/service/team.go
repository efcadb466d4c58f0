package service

import (
	"context"
	"fmt"

	"procurement/models"
)

type TeamMemberView struct {
	models.TeamMember
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (s *Service) AddTeamMember(ctx context.Context, actor models.User, rfpID, userID, role string) (*models.TeamMember, error) {
	if role != models.TeamEvaluator && role != models.TeamApprover {
		return nil, validationError("team role must be evaluator or approver")
	}
	r, err := s.store.GetRFP(ctx, rfpID)
	if err != nil {
		return nil, lookup("rfp", err)
	}
	if r.CreatedBy != actor.ID {
		return nil, forbidden("only the creator manages the rfp team")
	}
	if r.Status == models.RFPCompleted || r.Status == models.RFPCancelled {
		return nil, validationError("rfp is %s", r.Status)
	}
	if userID == r.CreatedBy {
		return nil, validationError("the rfp creator cannot be a team member")
	}
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, lookup("user", err)
	}

	m := &models.TeamMember{RFPID: rfpID, UserID: userID, Role: role, AddedBy: actor.ID}
	if err := s.store.AddTeamMember(ctx, m); err != nil {
		return nil, fmt.Errorf("add team member: %w", err)
	}
	return m, nil
}

func (s *Service) RemoveTeamMember(ctx context.Context, actor models.User, rfpID, userID string) error {
	r, err := s.store.GetRFP(ctx, rfpID)
	if err != nil {
		return lookup("rfp", err)
	}
	if r.CreatedBy != actor.ID {
		return forbidden("only the creator manages the rfp team")
	}
	if err := s.store.RemoveTeamMember(ctx, rfpID, userID); err != nil {
		return lookup("team member", err)
	}
	return nil
}

func (s *Service) ListTeam(ctx context.Context, actor models.User, rfpID string) ([]TeamMemberView, error) {
	if _, err := s.store.GetRFP(ctx, rfpID); err != nil {
		return nil, lookup("rfp", err)
	}
	members, err := s.store.ListTeamMembers(ctx, rfpID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	users, err := s.store.ListUsers(ctx, models.UserFilter{IDs: ids})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	views := make([]TeamMemberView, 0, len(members))
	for _, m := range members {
		u := byID[m.UserID]
		views = append(views, TeamMemberView{TeamMember: m, FullName: u.FullName, Email: u.Email})
	}
	return views, nil
}

func (s *Service) evaluatorIDs(ctx context.Context, rfpID string) ([]string, error) {
	members, err := s.store.ListTeamMembers(ctx, rfpID)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, m := range members {
		if m.Role == models.TeamEvaluator {
			ids = append(ids, m.UserID)
		}
	}
	return ids, nil
}
