package domain

import "log/slog"

// Option configures the components of the synchronization engine.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	metrics   *Metrics
	scheduler *Scheduler
	recorder  StatusRecorder
}

// WithLogger injects the logger a component reports through.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics injects the metrics a component updates.
func WithMetrics(metrics *Metrics) Option {
	return func(o *options) {
		o.metrics = metrics
	}
}

// WithScheduler shares a scheduler between components. Without it each component
// creates a scheduler of DefaultPoolSize.
func WithScheduler(scheduler *Scheduler) Option {
	return func(o *options) {
		o.scheduler = scheduler
	}
}

// WithRecorder makes the workflow record every status it produces.
func WithRecorder(recorder StatusRecorder) Option {
	return func(o *options) {
		o.recorder = recorder
	}
}

func newOptions(opts ...Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	if o.scheduler == nil {
		o.scheduler = NewScheduler(DefaultPoolSize)
	}

	return o
}
