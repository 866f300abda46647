package cli

import (
	"fmt"

	"github.com/gantrydev/gantry/core"
	"github.com/gantrydev/gantry/logger"
)

// stepWarning pairs a step with the failure its policy downgraded.
type stepWarning struct {
	Step core.StepType
	Err  error
}

type CliStepPublisher struct {
	stepChan  chan core.StepType
	warnChan  chan stepWarning
	errorChan chan error
	logger    logger.Logger
}

func NewCliStepPublisher(logger logger.Logger) *CliStepPublisher {
	return &CliStepPublisher{
		stepChan:  make(chan core.StepType, 100), // Buffer size of 100
		warnChan:  make(chan stepWarning, 10),
		errorChan: make(chan error, 10),
		logger:    logger,
	}
}

func (p *CliStepPublisher) PublishStep(step core.StepType) {
	select {
	case p.stepChan <- step:
		p.logger.Debug(fmt.Sprintf("Successfully published step: %v", step))
	default:
		p.logger.Warn(fmt.Sprintf("Failed to publish step: %v. Channel full.", step))
	}
}

func (p *CliStepPublisher) Warn(step core.StepType, err error) {
	select {
	case p.warnChan <- stepWarning{Step: step, Err: err}:
		p.logger.Debug(fmt.Sprintf("Successfully published warning for step: %v", step))
	default:
		p.logger.Warn(fmt.Sprintf("Failed to publish warning for step: %v. Channel full.", step))
	}
}

func (p *CliStepPublisher) Error(step core.StepType, err error) {
	select {
	case p.errorChan <- err:
		p.logger.Debug(fmt.Sprintf("Successfully published error for step: %v", step))
	default:
		p.logger.Warn(fmt.Sprintf("Failed to publish error for step: %v. Channel full.", step))
	}
}

// decisionRequest is a yes/no question raised by the running pipeline that
// the wizard must answer before the pipeline can continue.
type decisionRequest struct {
	question string
	resp     chan bool
}

// ChanPrompter bridges core.Prompter onto a channel the wizard selects on.
// Confirm blocks the pipeline goroutine until the user answers.
type ChanPrompter struct {
	requests chan decisionRequest
}

func NewChanPrompter() *ChanPrompter {
	return &ChanPrompter{requests: make(chan decisionRequest)}
}

func (p *ChanPrompter) Confirm(question string) bool {
	req := decisionRequest{question: question, resp: make(chan bool, 1)}
	p.requests <- req
	return <-req.resp
}
