package workflow

import (
	"errors"
	"fmt"

	"procurement/models"
)

var (
	ErrEvaluationsIncomplete = errors.New("all evaluations must be completed")
	ErrProposalDecided       = errors.New("proposal already decided")
	ErrEvaluationCompleted   = errors.New("evaluation already submitted")
	ErrAwaitingApproval      = errors.New("proposal is awaiting approval")
)

type ProposalEvent string

const (
	ProposalEvaluationCompleted ProposalEvent = "evaluation_completed"
	ProposalSendForApproval     ProposalEvent = "send_for_approval"
	ProposalApprove             ProposalEvent = "approve"
	ProposalReject              ProposalEvent = "reject"
	ProposalSendBack            ProposalEvent = "send_back"
)

// Progress состояние оценок предложения, перечитанное в момент решения.
type Progress struct {
	Completed int
	Total     int
}

func (p Progress) AllComplete() bool {
	return p.Total > 0 && p.Completed == p.Total
}

// ApplyProposal возвращает предложение после события ev.
// progress нужен только для send_for_approval.
func ApplyProposal(p models.Proposal, ev ProposalEvent, progress Progress) (models.Proposal, error) {
	switch ev {
	case ProposalEvaluationCompleted:
		switch p.Status {
		case models.ProposalSubmitted:
			p.Status = models.ProposalUnderReview
			return p, nil
		case models.ProposalUnderReview:
			return p, nil
		}
	case ProposalSendForApproval:
		if !progress.AllComplete() {
			if p.Decided() {
				break
			}
			return p, fmt.Errorf("%w: %d of %d", ErrEvaluationsIncomplete, progress.Completed, progress.Total)
		}
		// предложение могло не успеть перейти в under_review после последней оценки
		if p.Status == models.ProposalSubmitted {
			p.Status = models.ProposalUnderReview
		}
		if p.Status == models.ProposalUnderReview && !p.AwaitingApproval {
			p.AwaitingApproval = true
			return p, nil
		}
	case ProposalApprove:
		if p.Status == models.ProposalUnderReview && p.AwaitingApproval {
			p.Status = models.ProposalShortlisted
			p.AwaitingApproval = false
			return p, nil
		}
	case ProposalReject:
		if p.Status == models.ProposalUnderReview && p.AwaitingApproval {
			p.Status = models.ProposalRejected
			p.AwaitingApproval = false
			return p, nil
		}
	case ProposalSendBack:
		if p.Status == models.ProposalUnderReview && p.AwaitingApproval {
			p.AwaitingApproval = false
			return p, nil
		}
	}
	return p, fmt.Errorf("%w: proposal %s on %s (awaiting approval: %t)", ErrInvalidTransition, ev, p.Status, p.AwaitingApproval)
}

// CanEditEvaluation запрещает правку отправленной оценки и оценок решённых предложений.
func CanEditEvaluation(e models.Evaluation, p models.Proposal) error {
	if e.Status == models.EvaluationCompleted {
		return ErrEvaluationCompleted
	}
	if p.Decided() {
		return fmt.Errorf("%w: %s", ErrProposalDecided, p.Status)
	}
	return nil
}

// CanAssignEvaluator: пока предложение ждёт решения, новых оценщиков не добавляют,
// иначе флаг перестанет означать "все оценки завершены".
func CanAssignEvaluator(p models.Proposal) error {
	if p.Decided() {
		return fmt.Errorf("%w: %s", ErrProposalDecided, p.Status)
	}
	if p.AwaitingApproval {
		return ErrAwaitingApproval
	}
	return nil
}
