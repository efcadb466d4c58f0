// Package reports builds procurement analytics from already loaded records.
package reports

import (
	"sort"

	"procurement/internal/scoring"
	"procurement/models"
)

type Dataset struct {
	RFPs        []models.RFP
	Proposals   []models.Proposal
	Evaluations []models.Evaluation
	Vendors     []models.Vendor
}

type Overview struct {
	TotalRFPs            int            `json:"totalRfps"`
	TotalProposals       int            `json:"totalProposals"`
	TotalEvaluations     int            `json:"totalEvaluations"`
	CompletedEvaluations int            `json:"completedEvaluations"`
	CompletionRate       float64        `json:"completionRate"`
	RFPsByStatus         map[string]int `json:"rfpsByStatus"`
	ProposalsByStatus    map[string]int `json:"proposalsByStatus"`
}

type VendorStat struct {
	VendorID    string  `json:"vendorId"`
	Name        string  `json:"name"`
	Proposals   int     `json:"proposals"`
	Shortlisted int     `json:"shortlisted"`
	Rejected    int     `json:"rejected"`
	Evaluated   int     `json:"evaluated"`
	MeanOverall float64 `json:"meanOverall"`
}

type Scorecard struct {
	Rank       int             `json:"rank"`
	ProposalID string          `json:"proposalId"`
	VendorID   string          `json:"vendorId"`
	VendorName string          `json:"vendorName"`
	Status     string          `json:"status"`
	Summary    scoring.Summary `json:"summary"`
}

func BuildOverview(d Dataset) Overview {
	o := Overview{
		TotalRFPs:         len(d.RFPs),
		TotalProposals:    len(d.Proposals),
		TotalEvaluations:  len(d.Evaluations),
		RFPsByStatus:      map[string]int{},
		ProposalsByStatus: map[string]int{},
	}
	for _, r := range d.RFPs {
		o.RFPsByStatus[r.Status]++
	}
	for _, p := range d.Proposals {
		o.ProposalsByStatus[p.Status]++
	}
	for _, e := range d.Evaluations {
		if e.Status == models.EvaluationCompleted {
			o.CompletedEvaluations++
		}
	}
	if o.TotalEvaluations > 0 {
		o.CompletionRate = float64(o.CompletedEvaluations) * 100 / float64(o.TotalEvaluations)
	}
	return o
}

func evaluationsByProposal(evals []models.Evaluation) map[string][]models.Evaluation {
	out := make(map[string][]models.Evaluation)
	for _, e := range evals {
		out[e.ProposalID] = append(out[e.ProposalID], e)
	}
	return out
}

func vendorNames(vendors []models.Vendor) map[string]string {
	out := make(map[string]string, len(vendors))
	for _, v := range vendors {
		out[v.ID] = v.Name
	}
	return out
}

// VendorAnalytics сортирует по средней итоговой оценке, затем по имени
func VendorAnalytics(d Dataset) []VendorStat {
	names := vendorNames(d.Vendors)
	byProposal := evaluationsByProposal(d.Evaluations)
	stats := map[string]*VendorStat{}
	sums := map[string]int{}

	for _, p := range d.Proposals {
		st, ok := stats[p.VendorID]
		if !ok {
			st = &VendorStat{VendorID: p.VendorID, Name: names[p.VendorID]}
			stats[p.VendorID] = st
		}
		st.Proposals++
		switch p.Status {
		case models.ProposalShortlisted:
			st.Shortlisted++
		case models.ProposalRejected:
			st.Rejected++
		}
		for _, e := range byProposal[p.ID] {
			if e.Status == models.EvaluationCompleted {
				st.Evaluated++
				sums[p.VendorID] += e.OverallScore
			}
		}
	}

	out := make([]VendorStat, 0, len(stats))
	for id, st := range stats {
		if st.Evaluated > 0 {
			st.MeanOverall = float64(sums[id]) / float64(st.Evaluated)
		}
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MeanOverall != out[j].MeanOverall {
			return out[i].MeanOverall > out[j].MeanOverall
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Scorecards ранжирует предложения одного RFP; без завершённых оценок идут в конец
func Scorecards(d Dataset, rfpID string) []Scorecard {
	names := vendorNames(d.Vendors)
	byProposal := evaluationsByProposal(d.Evaluations)

	cards := []Scorecard{}
	for _, p := range d.Proposals {
		if p.RFPID != rfpID {
			continue
		}
		cards = append(cards, Scorecard{
			ProposalID: p.ID,
			VendorID:   p.VendorID,
			VendorName: names[p.VendorID],
			Status:     p.Status,
			Summary:    scoring.Aggregate(byProposal[p.ID]),
		})
	}
	sort.SliceStable(cards, func(i, j int) bool {
		a, b := cards[i].Summary, cards[j].Summary
		if (a.Completed > 0) != (b.Completed > 0) {
			return a.Completed > 0
		}
		return a.MeanOverall > b.MeanOverall
	})
	for i := range cards {
		cards[i].Rank = i + 1
	}
	return cards
}
