// Package workflow holds the RFP and proposal state machines. Functions
// here are pure: they take the current record and return the next one.
package workflow

import (
	"errors"
	"fmt"

	"procurement/internal/scoring"
	"procurement/models"
)

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrNotEditable       = errors.New("only draft RFPs can be edited")
)

type RFPEvent string

const (
	RFPSubmit           RFPEvent = "submit"
	RFPApprove          RFPEvent = "approve"
	RFPReject           RFPEvent = "reject"
	RFPPublish          RFPEvent = "publish"
	RFPProposalReceived RFPEvent = "proposal_received"
	RFPComplete         RFPEvent = "complete"
	RFPCancel           RFPEvent = "cancel"
)

// ApplyRFP возвращает RFP в новом статусе. Для proposal_received в статусе
// evaluation возвращается та же запись без ошибки.
func ApplyRFP(r models.RFP, ev RFPEvent) (models.RFP, error) {
	next, err := nextRFPStatus(r, ev)
	if err != nil {
		return r, err
	}
	r.Status = next
	return r, nil
}

func nextRFPStatus(r models.RFP, ev RFPEvent) (string, error) {
	switch ev {
	case RFPSubmit:
		if r.Status != models.RFPDraft {
			break
		}
		if err := scoring.ValidateWeights(r.Weights()); err != nil {
			return "", err
		}
		return models.RFPPendingApproval, nil
	case RFPApprove:
		if r.Status == models.RFPPendingApproval {
			return models.RFPApproved, nil
		}
	case RFPReject:
		if r.Status == models.RFPPendingApproval {
			return models.RFPDraft, nil
		}
	case RFPPublish:
		if r.Status == models.RFPDraft || r.Status == models.RFPApproved {
			return models.RFPPublished, nil
		}
	case RFPProposalReceived:
		switch r.Status {
		case models.RFPPublished, models.RFPEvaluation:
			return models.RFPEvaluation, nil
		}
	case RFPComplete:
		if r.Status == models.RFPEvaluation {
			return models.RFPCompleted, nil
		}
	case RFPCancel:
		switch r.Status {
		case models.RFPCompleted, models.RFPCancelled:
		default:
			return models.RFPCancelled, nil
		}
	}
	return "", fmt.Errorf("%w: rfp %s on %s", ErrInvalidTransition, ev, r.Status)
}

// CanEditRFP разрешает правку только черновиков.
func CanEditRFP(r models.RFP) error {
	if r.Status != models.RFPDraft {
		return fmt.Errorf("%w: status %s", ErrNotEditable, r.Status)
	}
	return nil
}

// AcceptsProposals true для опубликованных RFP и RFP на оценке
func AcceptsProposals(r models.RFP) bool {
	return r.Status == models.RFPPublished || r.Status == models.RFPEvaluation
}
