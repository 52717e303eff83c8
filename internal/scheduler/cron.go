package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSpec runs the job daily shortly after midnight UTC.
const DefaultSpec = "5 0 * * *"

// Job owns the cron runner that triggers the engine.
type Job struct {
	cron *cron.Cron
}

// NewJob schedules the engine on the given crontab line (UTC). An empty spec
// falls back to DefaultSpec.
func NewJob(engine *Engine, spec string) (*Job, error) {
	if spec == "" {
		spec = DefaultSpec
	}
	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(spec, func() {
		log.Printf("scheduler: recurring job running")
		engine.Run(time.Now().UTC())
	}); err != nil {
		return nil, fmt.Errorf("schedule recurring job: %w", err)
	}
	return &Job{cron: c}, nil
}

// Start launches the cron runner in its own goroutine.
func (j *Job) Start() {
	j.cron.Start()
	log.Printf("scheduler: recurring job scheduled")
}

// Stop halts the runner and waits for an in-flight run to finish.
func (j *Job) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}
