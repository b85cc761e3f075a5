package orchestrator

import "schedpilot/internal/backend"

// Answer is the operator's response at the conflict prompt.
type Answer int

const (
	AnswerNo Answer = iota
	AnswerYes
	AnswerForce
)

// Decision is the resolved course of action after conflict checking.
type Decision int

const (
	Cancel Decision = iota
	Proceed
	ProceedForced
)

// Decide resolves (conflicts, forceFlag, answer) into a Decision.
//
// The prompt I/O lives at the CLI boundary; this function is the whole
// policy. The answer argument is consulted only when there are conflicts and
// force was not requested up front.
func Decide(conflicts []backend.Kind, force bool, answer Answer) Decision {
	if force {
		return ProceedForced
	}
	if len(conflicts) == 0 {
		return Proceed
	}
	switch answer {
	case AnswerForce:
		return ProceedForced
	case AnswerYes:
		return Proceed
	default:
		return Cancel
	}
}
