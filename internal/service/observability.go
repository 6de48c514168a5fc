package service

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// UseCaseEvent describes one finished service call.
type UseCaseEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
}

// UseCaseObserver is notified after every tracked service call.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}

// NewLoggerUseCaseObserver logs successful calls at debug level and failed
// ones at warn level. Callers print the returned error themselves.
func NewLoggerUseCaseObserver(logger *log.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &loggerObserver{logger: logger.WithPrefix("service")}
}

type loggerObserver struct {
	logger *log.Logger
}

func (o *loggerObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	kv := []any{"took", e.Duration.Round(time.Microsecond)}
	for k, v := range e.Fields {
		kv = append(kv, k, v)
	}
	if e.Err != nil {
		o.logger.Warn(e.Name+" failed", append(kv, "err", e.Err)...)
		return
	}
	o.logger.Debug(e.Name, kv...)
}

// useCase times one call. Fields may be filled in until end is called.
type useCase struct {
	obs     UseCaseObserver
	name    string
	started time.Time
	fields  map[string]any
}

func startUseCase(obs UseCaseObserver, name string, fields map[string]any) *useCase {
	if fields == nil {
		fields = map[string]any{}
	}
	return &useCase{obs: obs, name: name, started: time.Now().UTC(), fields: fields}
}

func (u *useCase) end(ctx context.Context, err error) {
	u.obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      u.name,
		StartedAt: u.started,
		Duration:  time.Since(u.started),
		Success:   err == nil,
		Err:       err,
		Fields:    u.fields,
	})
}
