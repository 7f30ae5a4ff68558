// Package workflow orchestrates the multi-step write operations the
// dashboard triggers against the core API. There is no server-side
// transaction spanning these calls, so each workflow is an explicit ordered
// list of steps with a declared compensating action per step: on failure,
// completed steps are compensated in reverse instead of leaving the
// attendee in a half-moved state.
package workflow

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var sagaCompensationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "workflow_saga_compensations_total",
		Help: "Compensating actions applied after a failed workflow step",
	},
	[]string{"workflow", "step"},
)

// Step is one upstream call inside a saga. Compensate undoes Do and may be
// nil when the step must not be undone (a waitlist record created to protect
// an attendee's place in line stays even when a later step fails).
type Step struct {
	Name       string
	Do         func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// StepError reports which step failed and whether every completed step was
// compensated cleanly.
type StepError struct {
	Workflow      string
	Step          string
	Err           error
	Compensated   bool
	CompensateErr error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("workflow %s: step %s: %v", e.Workflow, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Run executes the steps in order. On the first failure it runs the
// compensating actions of all completed steps in reverse order and returns a
// StepError naming the failed step. Compensation failures are logged and
// reported but do not stop the remaining compensations.
func Run(ctx context.Context, log zerolog.Logger, workflow string, steps []Step) error {
	done := make([]Step, 0, len(steps))

	for _, step := range steps {
		if err := step.Do(ctx); err != nil {
			log.Warn().
				Str("workflow", workflow).
				Str("step", step.Name).
				Err(err).
				Msg("workflow_step_failed")

			stepErr := &StepError{Workflow: workflow, Step: step.Name, Err: err, Compensated: true}

			for i := len(done) - 1; i >= 0; i-- {
				prev := done[i]
				if prev.Compensate == nil {
					continue
				}
				sagaCompensationsTotal.WithLabelValues(workflow, prev.Name).Inc()
				if cerr := prev.Compensate(ctx); cerr != nil {
					// nothing more we can do; the refetch after the workflow
					// surfaces whatever state the upstream is left in
					log.Error().
						Str("workflow", workflow).
						Str("step", prev.Name).
						Err(cerr).
						Msg("workflow_compensation_failed")
					stepErr.Compensated = false
					stepErr.CompensateErr = cerr
					continue
				}
				log.Info().
					Str("workflow", workflow).
					Str("step", prev.Name).
					Msg("workflow_step_compensated")
			}

			return stepErr
		}
		done = append(done, step)
	}

	return nil
}
