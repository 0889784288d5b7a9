// Package scheduler ejecuta tareas periódicas con robfig/cron.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/pms-api/internal/application/ports"
	"github.com/jhoicas/pms-api/pkg/logger"
)

// JobFunc tarea programada.
type JobFunc func(ctx context.Context) error

// Scheduler envuelve un cron.Cron con logging y métricas por ejecución.
type Scheduler struct {
	cron    *cron.Cron
	metrics ports.Metrics
	log     *logger.Logger
	timeout time.Duration
}

// New construye el scheduler. timeout limita cada ejecución (0 = 5 minutos).
func New(metrics ports.Metrics, log *logger.Logger, timeout time.Duration) *Scheduler {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Scheduler{
		// SkipIfStillRunning evita ejecuciones solapadas de la misma tarea.
		cron:    cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger))),
		metrics: metrics,
		log:     log.Named("scheduler"),
		timeout: timeout,
	}
}

// Add registra una tarea con una expresión cron estándar o descriptor (@every 15m).
func (s *Scheduler) Add(name, spec string, job JobFunc) error {
	_, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return err
	}
	s.log.Info().Str("job", name).Str("spec", spec).Msg("tarea programada")
	return nil
}

func (s *Scheduler) run(name string, job JobFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	start := time.Now()
	err := job(ctx)
	d := time.Since(start)
	s.metrics.RecordJobRun(name, d, err == nil)
	if err != nil {
		s.log.Error().Err(err).Str("job", name).Dur("duration", d).Msg("tarea fallida")
		return
	}
	s.log.Info().Str("job", name).Dur("duration", d).Msg("tarea completada")
}

// Start arranca el cron en segundo plano.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop detiene el cron y espera a las tareas en curso o a que ctx expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("tareas en curso no terminaron antes del apagado")
	}
}
