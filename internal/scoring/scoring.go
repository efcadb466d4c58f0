// Package scoring computes weighted evaluation scores and aggregates
// evaluator verdicts into an advisory recommendation.
package scoring

import (
	"errors"
	"fmt"

	"procurement/models"
)

const (
	LabelStrongCandidate = "Strong Candidate"
	LabelConditional     = "Conditional"
	LabelNotRecommended  = "Not Recommended"
	LabelPending         = "Pending Evaluations"

	// StrongThreshold минимальная средняя итоговая оценка для "Strong Candidate"
	StrongThreshold = 70
)

var ErrWeightsSum = errors.New("evaluation weights must sum to 100")

// ValidateWeights проверяет, что веса в диапазоне 0..100 и дают в сумме 100.
func ValidateWeights(w models.Weights) error {
	for _, v := range []int{w.Functional, w.Security, w.Business} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: weight %d out of range", ErrWeightsSum, v)
		}
	}
	if sum := w.Functional + w.Security + w.Business; sum != 100 {
		return fmt.Errorf("%w: got %d", ErrWeightsSum, sum)
	}
	return nil
}

// Calculate returns the suggested overall score, truncated toward zero.
func Calculate(functional, security, business int, w models.Weights) int {
	return (functional*w.Functional + security*w.Security + business*w.Business) / 100
}

// Summary is recomputed on every read and never stored.
type Summary struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	MeanFunctional float64 `json:"meanFunctional"`
	MeanSecurity   float64 `json:"meanSecurity"`
	MeanBusiness   float64 `json:"meanBusiness"`
	MeanOverall    float64 `json:"meanOverall"`
	Recommend      int     `json:"recommend"`
	Conditional    int     `json:"conditional"`
	NotRecommend   int     `json:"notRecommend"`
	Label          string  `json:"label"`
}

// AllComplete true если есть хотя бы одна оценка и все они завершены
func (s Summary) AllComplete() bool {
	return s.Total > 0 && s.Completed == s.Total
}

// Aggregate учитывает только завершённые оценки.
func Aggregate(evals []models.Evaluation) Summary {
	s := Summary{Total: len(evals)}
	var f, sec, b, o int
	for _, e := range evals {
		if e.Status != models.EvaluationCompleted {
			s.Pending++
			continue
		}
		s.Completed++
		f += e.FunctionalScore
		sec += e.SecurityScore
		b += e.BusinessScore
		o += e.OverallScore
		if e.Recommendation == nil {
			continue
		}
		switch *e.Recommendation {
		case models.Recommend:
			s.Recommend++
		case models.Conditional:
			s.Conditional++
		case models.NotRecommend:
			s.NotRecommend++
		}
	}
	if s.Completed == 0 {
		s.Label = LabelPending
		return s
	}
	n := float64(s.Completed)
	s.MeanFunctional = float64(f) / n
	s.MeanSecurity = float64(sec) / n
	s.MeanBusiness = float64(b) / n
	s.MeanOverall = float64(o) / n
	s.Label = label(s)
	return s
}

func label(s Summary) string {
	switch {
	case s.Recommend > s.NotRecommend && s.MeanOverall >= StrongThreshold:
		return LabelStrongCandidate
	case s.Recommend > s.NotRecommend:
		return LabelConditional
	case s.Recommend == s.NotRecommend:
		return LabelConditional
	default:
		return LabelNotRecommended
	}
}
