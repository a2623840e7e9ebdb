package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler re-runs the simulation batch on a cron schedule, each time with
// a fresh run id supplied by the run function itself.
type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	spec    string
	runFunc func(ctx context.Context) error
}

func New(spec string) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
		spec:   spec,
	}
}

// SetRunFunction sets the batch function invoked on each tick.
func (s *Scheduler) SetRunFunction(f func(ctx context.Context) error) {
	s.runFunc = f
}

func (s *Scheduler) Start() error {
	if s.runFunc == nil {
		log.Println("run function not set, scheduler will not start batches")
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		log.Printf("Triggered scheduled simulation run (%s)", s.spec)
		if err := s.runFunc(s.ctx); err != nil {
			log.Printf("scheduled simulation run failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("Scheduler started - simulation runs on cron spec %q (UTC)", s.spec)
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("Scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
