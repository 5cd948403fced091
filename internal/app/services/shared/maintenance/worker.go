package maintenance

import (
	"context"
	"medblock-service/internal/app/config"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/utils"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Job func(ctx context.Context) error

type namedJob struct {
	name string
	run  Job
}

// Worker runs registered housekeeping jobs on one cron schedule.
type Worker struct {
	log  *zap.Logger
	spec string

	mu     sync.Mutex
	jobs   []namedJob
	cron   *cron.Cron
	runCtx context.Context
	cancel context.CancelFunc
}

func NewWorker(logger *zap.Logger, internalConfig *config.InternalConfig) *Worker {
	return &Worker{log: logger, spec: internalConfig.App.MaintenanceCronSpec}
}

// Register adds a job. Jobs registered after Start run from the next tick.
func (w *Worker) Register(name string, run Job) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.jobs = append(w.jobs, namedJob{name: name, run: run})
}

func (w *Worker) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)

	c := cron.New()
	if _, err := c.AddFunc(w.spec, func() { w.RunOnce(w.runCtx) }); err != nil {
		w.log.Warn("maintenance.Worker invalid cron spec, falling back",
			zap.String("spec", w.spec),
			zap.String("fallback", constvars.FallbackMaintenanceCronSpec),
			zap.Error(err),
		)
		c = cron.New()
		_, _ = c.AddFunc(constvars.FallbackMaintenanceCronSpec, func() { w.RunOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c

	w.log.Info("maintenance.Worker started", zap.Int("entries", len(c.Entries())))
}

// Stop waits for a running tick to finish.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		<-w.cron.Stop().Done()
		w.cron = nil
	}
}

// RunOnce runs every job in registration order. A failing job does not
// stop the rest.
func (w *Worker) RunOnce(ctx context.Context) {
	w.mu.Lock()
	jobs := make([]namedJob, len(w.jobs))
	copy(jobs, w.jobs)
	w.mu.Unlock()

	for _, j := range jobs {
		if ctx.Err() != nil {
			return
		}
		_ = utils.LogOperation(w.log, j.name, func() error {
			return j.run(ctx)
		}, zap.String("schedule", w.spec))
	}
}
