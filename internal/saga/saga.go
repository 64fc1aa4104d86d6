// Package saga runs multi-step writes that have no database transaction
// around them. Each step declares what happens when it fails, and the run
// reports every failure it tolerated.
package saga

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

// Policy decides what a failed step does to the rest of the run.
type Policy int

const (
	// Abort compensates completed steps in reverse order and fails the run.
	Abort Policy = iota
	// Continue records the failure and moves on to the next step.
	Continue
	// Halt records the failure and skips the remaining steps of the current
	// Run call without failing it.
	Halt
)

func (p Policy) String() string {
	switch p {
	case Abort:
		return "abort"
	case Continue:
		return "continue"
	case Halt:
		return "halt"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

var stepFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "papelaria_saga_step_failures_total",
	Help: "Failed mutation steps by saga, step and policy.",
}, []string{"saga", "step", "policy"})

// Step is one write of a sequence. Exactly one of Action or Expand is set.
type Step struct {
	Name   string
	Ref    string
	Policy Policy
	Action func(ctx context.Context) error
	// Expand produces steps that run immediately after this one, for work
	// whose shape is only known after a read.
	Expand func(ctx context.Context) ([]Step, error)
	// Compensate undoes Action if a later Abort step fails.
	Compensate func(ctx context.Context) error
}

// Failure is a tolerated step failure as reported to clients.
type Failure struct {
	Step  string `json:"step"`
	Ref   string `json:"ref,omitempty"`
	Error string `json:"error"`
}

type Report struct {
	Failures []Failure
}

func (r Report) OK() bool { return len(r.Failures) == 0 }

// Saga accumulates a report over one or more Run calls.
type Saga struct {
	name   string
	log    logrus.FieldLogger
	report Report
	done   []Step
}

func New(name string, log logrus.FieldLogger) *Saga {
	return &Saga{name: name, log: log.WithField("saga", name)}
}

// Run executes steps in order. Once started it ignores cancellation of ctx
// so a sequence is never cut between two writes. The returned error is the
// failure of an Abort step; tolerated failures are only in the Report.
func (s *Saga) Run(ctx context.Context, steps ...Step) error {
	ctx = context.WithoutCancel(ctx)

	queue := append([]Step(nil), steps...)
	for len(queue) > 0 {
		step := queue[0]
		queue = queue[1:]

		var (
			next []Step
			err  error
		)
		if step.Expand != nil {
			next, err = step.Expand(ctx)
		} else if step.Action != nil {
			err = step.Action(ctx)
		}

		if err == nil {
			if step.Compensate != nil {
				s.done = append(s.done, step)
			}
			queue = append(next, queue...)
			continue
		}

		stepFailures.WithLabelValues(s.name, step.Name, step.Policy.String()).Inc()
		entry := s.log.WithFields(logrus.Fields{"step": step.Name, "ref": step.Ref}).WithError(err)

		switch step.Policy {
		case Abort:
			entry.Error("Step failed, aborting")
			s.compensate(ctx)
			return err
		case Halt:
			entry.Warn("Step failed, skipping the rest of the sequence")
			s.record(step, err)
			return nil
		default:
			entry.Warn("Step failed, continuing")
			s.record(step, err)
		}
	}
	return nil
}

func (s *Saga) Report() Report { return s.report }

func (s *Saga) record(step Step, err error) {
	s.report.Failures = append(s.report.Failures, Failure{Step: step.Name, Ref: step.Ref, Error: err.Error()})
}

func (s *Saga) compensate(ctx context.Context) {
	for i := len(s.done) - 1; i >= 0; i-- {
		step := s.done[i]
		if err := step.Compensate(ctx); err != nil {
			s.log.WithFields(logrus.Fields{"step": step.Name, "ref": step.Ref}).WithError(err).Error("Compensation failed")
		}
	}
	s.done = nil
}
