// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/wneessen/weatherdash/internal/logger"
)

// Job represents a scheduled task that runs at a fixed interval
// and never overlaps with itself (singleton mode).
type Job struct {
	name     string
	interval time.Duration
	task     func(context.Context)
	log      *logger.Logger
}

// New creates a new Job with the given name, interval and task. A nil logger disables
// logging.
func New(name string, interval time.Duration, log *logger.Logger, task func(context.Context)) *Job {
	return &Job{
		name:     name,
		interval: interval,
		task:     task,
		log:      log,
	}
}

func (j *Job) Name() string {
	return j.name
}

// Start begins executing the job on the given context. It returns when the context is cancelled.
// It executes jobs in singleton mode, meaning if a tick fires while a previous run is still
// executing, that tick is skipped.
func (j *Job) Start(ctx context.Context) {
	if j.task == nil || j.interval <= 0 {
		return
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	// sem is a 1-slot semaphore that guards "is a run in progress?"
	sem := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			j.debug("job stopped")
			return
		case <-ticker.C:
			// Try to acquire the semaphore without blocking.
			select {
			case sem <- struct{}{}:
				go func() {
					defer func() { <-sem }()
					runCtx, cancel := context.WithCancel(ctx)
					defer cancel()
					j.task(runCtx)
				}()
			default:
				j.debug("previous run still in progress, skipping tick")
			}
		}
	}
}

func (j *Job) debug(msg string) {
	if j.log == nil {
		return
	}
	j.log.Debug(msg, slog.String("job", j.name), slog.Duration("interval", j.interval))
}
