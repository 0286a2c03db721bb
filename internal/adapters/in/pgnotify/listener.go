package pgnotify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
)

// Source is the part of *pq.Listener the wake-up loop uses.
type Source interface {
	Listen(channel string) error
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

// Dispatcher runs every due task.
type Dispatcher interface {
	DispatchDue(ctx context.Context) (int, error)
}

// NewPQSource opens a reconnecting LISTEN connection. Connection events are logged.
func NewPQSource(dsn string, minReconnect, maxReconnect time.Duration, logger *slog.Logger) *pq.Listener {
	log := logger.With("component", "pg_listener")
	return pq.NewListener(dsn, minReconnect, maxReconnect, func(event pq.ListenerEventType, err error) {
		switch event {
		case pq.ListenerEventConnected:
			log.Info("Listener connected")
		case pq.ListenerEventDisconnected:
			log.Warn("Listener disconnected", "error", err)
		case pq.ListenerEventReconnected:
			log.Info("Listener reconnected")
		case pq.ListenerEventConnectionAttemptFailed:
			log.Warn("Listener connection attempt failed", "error", err)
		}
	})
}

// Listener wakes the task dispatcher as soon as a task is scheduled instead
// of waiting for the next cron tick.
type Listener struct {
	source       Source
	channel      string
	dispatcher   Dispatcher
	pingInterval time.Duration
	logger       *slog.Logger
}

func NewListener(source Source, channel string, dispatcher Dispatcher, pingInterval time.Duration, logger *slog.Logger) *Listener {
	if pingInterval <= 0 {
		pingInterval = time.Minute
	}

	return &Listener{
		source:       source,
		channel:      channel,
		dispatcher:   dispatcher,
		pingInterval: pingInterval,
		logger:       logger.With("component", "task_wakeup", "channel", channel),
	}
}

// Run listens until ctx is done. A nil notification follows a reconnect,
// when notifications may have been missed, and triggers a dispatch as well.
func (l *Listener) Run(ctx context.Context) error {
	if err := l.source.Listen(l.channel); err != nil {
		return fmt.Errorf("listen on %q: %w", l.channel, err)
	}
	defer func() {
		if err := l.source.Close(); err != nil {
			l.logger.WarnContext(ctx, "Closing listener failed", "error", err)
		}
	}()

	l.logger.InfoContext(ctx, "Listening for scheduled tasks")
	l.dispatch(ctx)

	ping := time.NewTicker(l.pingInterval)
	defer ping.Stop()

	notifications := l.source.NotificationChannel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-notifications:
			if !ok {
				return errors.New("notification channel closed")
			}
			if n == nil {
				l.logger.InfoContext(ctx, "Connection re-established, dispatching")
			}
			l.dispatch(ctx)
		case <-ping.C:
			if err := l.source.Ping(); err != nil {
				l.logger.WarnContext(ctx, "Listener ping failed", "error", err)
			}
		}
	}
}

func (l *Listener) dispatch(ctx context.Context) {
	n, err := l.dispatcher.DispatchDue(ctx)
	if err != nil {
		if ctx.Err() == nil {
			l.logger.ErrorContext(ctx, "Dispatch failed", "error", err)
		}
		return
	}
	if n > 0 {
		l.logger.DebugContext(ctx, "Dispatched tasks", "count", n)
	}
}
