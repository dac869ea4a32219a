package lifecycle

import (
	"errors"
	"fmt"
	"strings"

	"portal_orcamentos/internal/domain/entities"
)

var (
	ErrUnknownStatus     = errors.New("unknown status")
	ErrTransitionBlocked = errors.New("transition not allowed")
)

// TransitionPolicy decides which explicit status changes staff may apply.
type TransitionPolicy string

const (
	// PolicyPermissive lets staff set any known status from any status.
	PolicyPermissive TransitionPolicy = "permissive"
	// PolicyStrict only allows the next step forward, the review loop between
	// "Em conferência" and "Orçamento atualizado", and nothing out of a terminal status.
	// Cancellation goes through the cancel operation.
	PolicyStrict TransitionPolicy = "strict"
)

func ParsePolicy(raw string) (TransitionPolicy, error) {
	switch TransitionPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PolicyPermissive:
		return PolicyPermissive, nil
	case PolicyStrict:
		return PolicyStrict, nil
	default:
		return "", fmt.Errorf("invalid transition policy %q", raw)
	}
}

// Check validates moving from -> to under the policy.
func (p TransitionPolicy) Check(from, to entities.QuoteStatus) error {
	if !to.Known() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if p != PolicyStrict {
		return nil
	}

	if IsTerminal(from) {
		return fmt.Errorf("%w: %q is terminal", ErrTransitionBlocked, from)
	}
	if to == entities.StatusCancelled {
		return fmt.Errorf("%w: use cancel to reach %q", ErrTransitionBlocked, to)
	}
	if from == entities.StatusQuoteUpdated && to == entities.StatusUnderReview {
		return nil
	}
	fromIdx := from.Index()
	if fromIdx >= 0 && to.Index() == fromIdx+1 {
		return nil
	}
	return fmt.Errorf("%w: %q -> %q", ErrTransitionBlocked, from, to)
}
