package cli

import (
	"fmt"
	"io"

	"github.com/AlecAivazis/survey/v2"

	"schedpilot/internal/backend"
	"schedpilot/internal/orchestrator"
)

// surveyConfirmer is the interactive edge of the conflict check. The actual
// decision policy is orchestrator.Decide; this only collects an answer.
type surveyConfirmer struct {
	out       io.Writer
	assumeYes bool
}

const (
	optContinue = "Continue with the selected backend"
	optForce    = "Force-update all applicable backends"
	optCancel   = "Cancel, change nothing"
)

func (c surveyConfirmer) Confirm(selected backend.Kind, conflicts []backend.Kind) (orchestrator.Answer, error) {
	fmt.Fprintln(c.out, renderConflictWarning(selected, conflicts))

	if c.assumeYes {
		return orchestrator.AnswerYes, nil
	}

	var choice string
	prompt := &survey.Select{
		Message: "Another backend is already scheduling this job. Continue anyway?",
		Options: []string{optContinue, optForce, optCancel},
		Default: optCancel,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return orchestrator.AnswerNo, fmt.Errorf("survey failed: %w", err)
	}

	switch choice {
	case optContinue:
		return orchestrator.AnswerYes, nil
	case optForce:
		return orchestrator.AnswerForce, nil
	default:
		return orchestrator.AnswerNo, nil
	}
}
