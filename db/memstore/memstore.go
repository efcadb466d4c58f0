// Package memstore is an in-memory implementation of the storage gateway.
// It backs `api-server serve --memory` and the service and handler tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"procurement/models"
)

type Store struct {
	mu  sync.RWMutex
	seq int64
	now func() time.Time

	users         map[string]models.User
	rfps          map[string]models.RFP
	vendors       map[string]models.Vendor
	proposals     map[string]models.Proposal
	evaluations   map[string]models.Evaluation
	team          map[string]models.TeamMember
	notifications map[string]models.Notification
	templates     map[string]models.Template
	order         map[string]int64
}

func New() *Store {
	return &Store{
		now:           time.Now,
		users:         map[string]models.User{},
		rfps:          map[string]models.RFP{},
		vendors:       map[string]models.Vendor{},
		proposals:     map[string]models.Proposal{},
		evaluations:   map[string]models.Evaluation{},
		team:          map[string]models.TeamMember{},
		notifications: map[string]models.Notification{},
		templates:     map[string]models.Template{},
		order:         map[string]int64{},
	}
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// track запоминает порядок вставки; вызывается под mu
func (s *Store) track(key string) {
	s.seq++
	s.order[key] = s.seq
}

func in(set []string, v string) bool {
	if set == nil {
		return true
	}
	for _, x := range set {
		if x == v {
			return true
		}
	}
	return false
}

func (s *Store) byOrder(prefix string, ids []string, desc bool) {
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.order[prefix+ids[i]], s.order[prefix+ids[j]]
		if desc {
			return a > b
		}
		return a < b
	})
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return models.ErrConflict
		}
	}
	u.ID = newID(u.ID)
	u.CreatedAt = s.now()
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *Store) ListUsers(ctx context.Context, f models.UserFilter) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.User{}
	for _, u := range s.users {
		if in(f.IDs, u.ID) && (f.Role == "" || u.Role == f.Role) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

// RFPs

func (s *Store) CreateRFP(ctx context.Context, r *models.RFP) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = newID(r.ID)
	r.CreatedAt = s.now()
	r.UpdatedAt = r.CreatedAt
	s.rfps[r.ID] = *r
	s.track("rfp:" + r.ID)
	return nil
}

func (s *Store) GetRFP(ctx context.Context, id string) (*models.RFP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rfps[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &r, nil
}

func (s *Store) UpdateRFP(ctx context.Context, r *models.RFP) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rfps[r.ID]; !ok {
		return models.ErrNotFound
	}
	r.UpdatedAt = s.now()
	s.rfps[r.ID] = *r
	return nil
}

func (s *Store) ListRFPs(ctx context.Context, f models.RFPFilter) ([]models.RFP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := []string{}
	for id, r := range s.rfps {
		if in(f.IDs, id) && in(f.Statuses, r.Status) && (f.CreatedBy == "" || r.CreatedBy == f.CreatedBy) {
			ids = append(ids, id)
		}
	}
	s.byOrder("rfp:", ids, true)
	out := make([]models.RFP, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.rfps[id])
	}
	return paginate(out, f.Limit, f.Offset), nil
}

// Vendors

func (s *Store) CreateVendor(ctx context.Context, v *models.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = newID(v.ID)
	v.CreatedAt = s.now()
	v.UpdatedAt = v.CreatedAt
	s.vendors[v.ID] = *v
	return nil
}

func (s *Store) GetVendor(ctx context.Context, id string) (*models.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vendors[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &v, nil
}

func (s *Store) UpdateVendor(ctx context.Context, v *models.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vendors[v.ID]; !ok {
		return models.ErrNotFound
	}
	v.UpdatedAt = s.now()
	s.vendors[v.ID] = *v
	return nil
}

func (s *Store) ListVendors(ctx context.Context, f models.VendorFilter) ([]models.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Vendor{}
	for id, v := range s.vendors {
		if in(f.IDs, id) && (f.CreatedBy == "" || v.CreatedBy == f.CreatedBy) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, f.Limit, f.Offset), nil
}

// Proposals

func (s *Store) CreateProposal(ctx context.Context, p *models.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = newID(p.ID)
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	s.proposals[p.ID] = *p
	s.track("proposal:" + p.ID)
	return nil
}

func (s *Store) GetProposal(ctx context.Context, id string) (*models.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.proposals[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (s *Store) UpdateProposal(ctx context.Context, p *models.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.proposals[p.ID]; !ok {
		return models.ErrNotFound
	}
	p.UpdatedAt = s.now()
	s.proposals[p.ID] = *p
	return nil
}

func (s *Store) ListProposals(ctx context.Context, f models.ProposalFilter) ([]models.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := []string{}
	for id, p := range s.proposals {
		if !in(f.IDs, id) || !in(f.RFPIDs, p.RFPID) || !in(f.Statuses, p.Status) {
			continue
		}
		if f.VendorID != "" && p.VendorID != f.VendorID {
			continue
		}
		if f.AwaitingApproval != nil && p.AwaitingApproval != *f.AwaitingApproval {
			continue
		}
		ids = append(ids, id)
	}
	s.byOrder("proposal:", ids, true)
	out := make([]models.Proposal, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.proposals[id])
	}
	return out, nil
}

// Evaluations

func (s *Store) CreateEvaluation(ctx context.Context, e *models.Evaluation) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.evaluations {
		if existing.ProposalID == e.ProposalID && existing.EvaluatorID == e.EvaluatorID {
			*e = existing
			return false, nil
		}
	}
	e.ID = newID(e.ID)
	if e.Status == "" {
		e.Status = models.EvaluationPending
	}
	e.CreatedAt = s.now()
	e.UpdatedAt = e.CreatedAt
	s.evaluations[e.ID] = *e
	s.track("evaluation:" + e.ID)
	return true, nil
}

func (s *Store) GetEvaluation(ctx context.Context, id string) (*models.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.evaluations[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &e, nil
}

func (s *Store) UpdateEvaluation(ctx context.Context, e *models.Evaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.evaluations[e.ID]; !ok {
		return models.ErrNotFound
	}
	e.UpdatedAt = s.now()
	s.evaluations[e.ID] = *e
	return nil
}

func (s *Store) ListEvaluations(ctx context.Context, f models.EvaluationFilter) ([]models.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := []string{}
	for id, e := range s.evaluations {
		if !in(f.ProposalIDs, e.ProposalID) {
			continue
		}
		if (f.EvaluatorID != "" && e.EvaluatorID != f.EvaluatorID) || (f.Status != "" && e.Status != f.Status) {
			continue
		}
		ids = append(ids, id)
	}
	s.byOrder("evaluation:", ids, false)
	out := make([]models.Evaluation, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.evaluations[id])
	}
	return out, nil
}

// Team

func teamKey(rfpID, userID string) string { return rfpID + "/" + userID }

func (s *Store) AddTeamMember(ctx context.Context, m *models.TeamMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := teamKey(m.RFPID, m.UserID)
	if existing, ok := s.team[key]; ok {
		m.CreatedAt = existing.CreatedAt
	} else {
		m.CreatedAt = s.now()
		s.track("team:" + key)
	}
	s.team[key] = *m
	return nil
}

func (s *Store) RemoveTeamMember(ctx context.Context, rfpID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := teamKey(rfpID, userID)
	if _, ok := s.team[key]; !ok {
		return models.ErrNotFound
	}
	delete(s.team, key)
	return nil
}

func (s *Store) ListTeamMembers(ctx context.Context, rfpID string) ([]models.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := []string{}
	for key, m := range s.team {
		if m.RFPID == rfpID {
			keys = append(keys, key)
		}
	}
	s.byOrder("team:", keys, false)
	out := make([]models.TeamMember, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.team[k])
	}
	return out, nil
}

// Notifications

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = newID(n.ID)
	n.IsRead = false
	n.CreatedAt = s.now()
	s.notifications[n.ID] = *n
	s.track("notification:" + n.ID)
	return nil
}

func (s *Store) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := []string{}
	for id, n := range s.notifications {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			ids = append(ids, id)
		}
	}
	s.byOrder("notification:", ids, true)
	out := make([]models.Notification, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.notifications[id])
	}
	return out, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok || n.UserID != userID {
		return models.ErrNotFound
	}
	n.IsRead = true
	s.notifications[id] = n
	return nil
}

func (s *Store) CountUnreadNotifications(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

// Templates

func (s *Store) CreateTemplate(ctx context.Context, t *models.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = newID(t.ID)
	t.CreatedAt = s.now()
	s.templates[t.ID] = *t
	return nil
}

func (s *Store) GetTemplate(ctx context.Context, id string) (*models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &t, nil
}

func (s *Store) ListTemplates(ctx context.Context, activeOnly bool) ([]models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Template{}
	for _, t := range s.templates {
		if !activeOnly || t.IsActive {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
