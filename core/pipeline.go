package core

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Pipeline runs an ordered list of steps against a shared State. Steps whose
// predicate rejects the request are recorded as skipped; failures are handled
// per the step's declared policy. Execution is strictly sequential.
type Pipeline struct {
	steps     []Step
	state     *State
	publisher StepPublisher
}

func NewPipeline(state *State, steps []Step, pub StepPublisher) *Pipeline {
	if pub == nil {
		pub = &DefaultStepPublisher{}
	}
	return &Pipeline{
		steps:     steps,
		state:     state,
		publisher: pub,
	}
}

func (p *Pipeline) Execute(ctx context.Context) error {
	log := p.state.Logger
	log.Info(fmt.Sprintf("Starting pipeline with %d steps", len(p.steps)))
	for i, step := range p.steps {
		select {
		case <-ctx.Done():
			log.Info("Pipeline execution cancelled")
			return context.Canceled
		default:
		}

		if !step.ShouldRun(p.state.Request) {
			log.Debug(fmt.Sprintf("Skipping step %q", step.Title))
			p.record(step, StatusSkipped, nil, 0)
			p.publisher.PublishStep(step.Type)
			continue
		}

		log.Info(fmt.Sprintf("Executing step %d: %s", i, step.Title))
		startTime := time.Now()
		err := step.Run(ctx, p.state)
		duration := time.Since(startTime)

		if err != nil {
			var degraded *DegradedError
			if errors.As(err, &degraded) || step.OnFailure == WarnAndContinue {
				log.Warn(fmt.Sprintf("Step %q failed, continuing: %v", step.Title, err))
				p.record(step, StatusWarned, err, duration)
				p.publisher.Warn(step.Type, err)
				continue
			}
			log.Error(fmt.Sprintf("Step %q failed after %v", step.Title, duration))
			p.record(step, StatusFailed, err, duration)
			p.publisher.Error(step.Type, err)
			return err
		}

		log.Info(fmt.Sprintf("Step %q completed in %v", step.Title, duration))
		p.record(step, StatusSucceeded, nil, duration)
		p.publisher.PublishStep(step.Type)
	}

	log.Info("Pipeline execution completed")
	return nil
}

func (p *Pipeline) record(step Step, status StepStatus, err error, d time.Duration) {
	p.state.Results = append(p.state.Results, StepResult{
		Type:     step.Type,
		Title:    step.Title,
		Status:   status,
		Err:      err,
		Duration: d,
	})
}

type StepPublisher interface {
	PublishStep(step StepType)
	Warn(step StepType, err error)
	Error(step StepType, err error)
}

type DefaultStepPublisher struct{}

func (p *DefaultStepPublisher) PublishStep(step StepType) {}

func (p *DefaultStepPublisher) Warn(step StepType, err error) {}

func (p *DefaultStepPublisher) Error(step StepType, err error) {}
