package orchestrator

import (
	"fmt"
	"strings"

	"github.com/conn-castle/expofast/internal/messages"
	"github.com/conn-castle/expofast/internal/runner"
)

// CommandError is a failed external command.
type CommandError struct {
	Command string
	Result  runner.Result
}

func (e *CommandError) Error() string {
	return fmt.Sprintf(messages.OrchestratorCommandFailedFmt, e.Command, strings.TrimSpace(e.Result.Output))
}

// CreationError is a failure of the fatal create step.
type CreationError struct {
	Project string
	Err     error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf(messages.OrchestratorCreationFailedFmt, e.Project, e.Err)
}

func (e *CreationError) Unwrap() error {
	return e.Err
}
