package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gantrydev/gantry/core"
	"github.com/gantrydev/gantry/logger"
)

// pipelineJob is one queued pipeline run. The engine reports the pipeline's
// outcome on ResultChan.
type pipelineJob struct {
	State      *core.State
	Steps      []core.Step
	ResultChan chan error
	CreatedAt  time.Time
}

// Engine runs pipelines on background workers so the wizard can keep its
// event loop free while commands execute.
type Engine struct {
	pub          core.StepPublisher
	logger       logger.Logger
	jobs         chan pipelineJob
	workers      int
	workerWG     sync.WaitGroup
	shutdownChan chan struct{}
}

func NewEngine(pub core.StepPublisher, l logger.Logger, workers int) *Engine {
	if l == nil {
		l = logger.NewNullLogger()
	}
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		pub:          pub,
		logger:       l,
		jobs:         make(chan pipelineJob, 16), // Buffered channel
		workers:      workers,
		shutdownChan: make(chan struct{}),
	}
}

func (e *Engine) Start(ctx context.Context) {
	for i := 0; i < e.workers; i++ {
		e.workerWG.Add(1)
		go e.worker(ctx)
	}
}

func (e *Engine) worker(ctx context.Context) {
	defer e.workerWG.Done()
	for {
		select {
		case job := <-e.jobs:
			e.logger.Debug(fmt.Sprintf("Worker picked up job queued at %s", job.CreatedAt.Format(time.RFC3339)))
			pipeline := core.NewPipeline(job.State, job.Steps, e.pub)
			err := pipeline.Execute(ctx)
			if err == nil {
				e.pub.PublishStep(core.Done)
			}
			job.ResultChan <- err
			close(job.ResultChan)
		case <-ctx.Done():
			return
		case <-e.shutdownChan:
			return
		}
	}
}

// Enqueue schedules the given steps against state and returns the channel
// the run's result will be delivered on.
func (e *Engine) Enqueue(state *core.State, steps []core.Step) chan error {
	resultChan := make(chan error, 1)
	e.jobs <- pipelineJob{
		State:      state,
		Steps:      steps,
		ResultChan: resultChan,
		CreatedAt:  time.Now(),
	}
	return resultChan
}

func (e *Engine) Shutdown(timeout time.Duration) {
	close(e.shutdownChan)

	done := make(chan struct{})
	go func() {
		e.workerWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("All workers shut down gracefully")
	case <-time.After(timeout):
		e.logger.Warn("Shutdown timed out, some workers may still be running")
	}
}
