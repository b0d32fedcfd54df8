package engine

import "fmt"

// ErrInvalidTransition is returned when a requested lifecycle move is
// not permitted by the state machine.
type ErrInvalidTransition struct {
	From, To string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid lifecycle transition %s -> %s", e.From, e.To)
}

// recordTransitions encodes Pending -> Reviewed -> Finalized, with
// Disputed reachable from Pending and Reviewed and resolvable to
// Finalized. Finalized is terminal.
var recordTransitions = map[RecordStatus][]RecordStatus{
	RecordPending:  {RecordReviewed, RecordDisputed},
	RecordReviewed: {RecordFinalized, RecordDisputed},
	RecordDisputed: {RecordFinalized},
}

// CanTransitionRecord reports whether a daily record may move from one
// status to another. All transitions are external reviewer input; the
// engine itself only initializes records at Pending.
func CanTransitionRecord(from, to RecordStatus) bool {
	for _, next := range recordTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionRecord validates a record status move.
func TransitionRecord(from, to RecordStatus) error {
	if !CanTransitionRecord(from, to) {
		return &ErrInvalidTransition{From: string(from), To: string(to)}
	}
	return nil
}

// TransitionException validates an exception status move. The only
// permitted move is Pending -> Acknowledged, one way.
func TransitionException(from, to ExceptionStatus) error {
	if from == ExceptionPending && to == ExceptionAcknowledged {
		return nil
	}
	return &ErrInvalidTransition{From: string(from), To: string(to)}
}
