// Package notify delivers in-app notifications off the request path.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"procurement/internal/metrics"
	"procurement/models"
)

// Sink сохраняет уведомление; реализуется хранилищем
type Sink interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
}

// Dispatcher отправляет каждое уведомление в отдельной горутине.
// Ошибка доставки логируется и не влияет на основную операцию.
type Dispatcher struct {
	sink    Sink
	log     logrus.FieldLogger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(sink Sink, log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{sink: sink, log: log, timeout: 10 * time.Second}
}

func (d *Dispatcher) Notify(n models.Notification) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				metrics.Notifications.WithLabelValues("panic").Inc()
				d.log.WithField("user_id", n.UserID).Errorf("notification delivery panicked: %v", r)
			}
		}()
		if err := d.deliver(n); err != nil {
			metrics.Notifications.WithLabelValues("error").Inc()
			d.log.WithError(err).WithFields(logrus.Fields{
				"user_id": n.UserID,
				"type":    n.Type,
			}).Warn("failed to deliver notification")
			return
		}
		metrics.Notifications.WithLabelValues("ok").Inc()
	}()
}

func (d *Dispatcher) deliver(n models.Notification) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := d.sink.CreateNotification(ctx, &n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	return nil
}

// Wait блокируется до завершения всех отправок или отмены ctx
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
