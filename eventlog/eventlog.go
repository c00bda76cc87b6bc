// Package eventlog fans upload log events out to the console and storage sinks.
package eventlog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"kucukaslan/gadsconversion/database"
	"kucukaslan/gadsconversion/domain"
)

// Sink receives log events.
type Sink interface {
	Write(ctx context.Context, ev domain.LogEvent) error
}

// Modes selects the sinks for one invocation.
type Modes struct {
	Console domain.LogMode
	Storage domain.LogMode
	Debug   bool // the invocation comes from a debug or preview session
}

// ConsoleEnabled is true for "always", and for "debug" or an unset mode in a debug session.
func (m Modes) ConsoleEnabled() bool {
	switch m.Console {
	case domain.LogModeAlways:
		return true
	case domain.LogModeDebug, domain.LogModeUnset:
		return m.Debug
	}
	return false
}

// StorageEnabled is like ConsoleEnabled except that an unset mode means off.
func (m Modes) StorageEnabled() bool {
	switch m.Storage {
	case domain.LogModeAlways:
		return true
	case domain.LogModeDebug:
		return m.Debug
	}
	return false
}

// ConsoleSink writes each event as one JSON line through zap.
type ConsoleSink struct {
	log *zap.Logger
}

func NewConsoleSink(log *zap.Logger) *ConsoleSink {
	return &ConsoleSink{log: log}
}

func (s *ConsoleSink) Write(_ context.Context, ev domain.LogEvent) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	s.log.Info(string(raw), zap.String("trace_id", ev.TraceID))
	return nil
}

// StorageSink remaps events to LogRows for the analytical store.
type StorageSink struct {
	writer database.LogRowWriter
	now    func() time.Time
}

func NewStorageSink(writer database.LogRowWriter) *StorageSink {
	return &StorageSink{writer: writer, now: time.Now}
}

func (s *StorageSink) Write(ctx context.Context, ev domain.LogEvent) error {
	row, err := ToLogRow(ev, s.now())
	if err != nil {
		return err
	}
	return s.writer.WriteLogRow(ctx, row)
}

// ToLogRow maps ev onto the storage schema. The request body and response headers
// are stored as JSON text, the response body as received.
func ToLogRow(ev domain.LogEvent, at time.Time) (database.LogRow, error) {
	row := database.LogRow{
		TagName:            ev.Name,
		Type:               string(ev.Type),
		TraceID:            ev.TraceID,
		EventName:          ev.EventName,
		Message:            ev.Message,
		Reason:             ev.Reason,
		RequestMethod:      ev.RequestMethod,
		RequestURL:         ev.RequestURL,
		ResponseStatusCode: int64(ev.ResponseStatusCode),
		ResponseBody:       ev.ResponseBody,
		Timestamp:          at.UnixMilli(),
	}

	if ev.RequestBody != nil {
		raw, err := json.Marshal(ev.RequestBody)
		if err != nil {
			return row, fmt.Errorf("serialize request body: %w", err)
		}
		row.RequestBody = string(raw)
	}
	if len(ev.ResponseHeaders) > 0 {
		raw, err := json.Marshal(ev.ResponseHeaders)
		if err != nil {
			return row, fmt.Errorf("serialize response headers: %w", err)
		}
		row.ResponseHeaders = string(raw)
	}
	return row, nil
}

// Dispatcher routes events to the enabled sinks. Sink failures never reach the caller.
type Dispatcher struct {
	console        Sink
	storage        Sink
	log            *zap.Logger
	storageTimeout time.Duration
	wg             sync.WaitGroup
}

// NewDispatcher wires the sinks; either may be nil.
func NewDispatcher(console, storage Sink, log *zap.Logger, storageTimeout time.Duration) *Dispatcher {
	if storageTimeout <= 0 {
		storageTimeout = 10 * time.Second
	}
	return &Dispatcher{
		console:        console,
		storage:        storage,
		log:            log,
		storageTimeout: storageTimeout,
	}
}

// Log writes ev to the console synchronously and to storage in the background.
func (d *Dispatcher) Log(ctx context.Context, modes Modes, ev domain.LogEvent) {
	if d.console != nil && modes.ConsoleEnabled() {
		d.write(ctx, d.console, "console", ev)
	}

	if d.storage != nil && modes.StorageEnabled() {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.storageTimeout)
			defer cancel()
			d.write(ctx, d.storage, "storage", ev)
		}()
	}
}

func (d *Dispatcher) write(ctx context.Context, sink Sink, name string, ev domain.LogEvent) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Debug("log sink panicked", zap.String("sink", name), zap.Any("panic", r))
		}
	}()
	if err := sink.Write(ctx, ev); err != nil {
		d.log.Debug("log sink write failed",
			zap.String("sink", name),
			zap.String("trace_id", ev.TraceID),
			zap.Error(err))
	}
}

// Wait blocks until background storage writes have finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
