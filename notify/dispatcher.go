// Package notify fans todo events out to the configured channels after the
// write that caused them has committed.
package notify

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/jalexanderII/zero-todos/models"
)

// Channel delivers a notification over one transport.
type Channel interface {
	Name() string
	Notify(n models.Notification) error
}

type Notifier interface {
	Dispatch(n models.Notification)
}

// Dispatcher sends on background goroutines. Failures are logged and dropped.
type Dispatcher struct {
	L        *logrus.Logger
	channels []Channel

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(l *logrus.Logger, channels ...Channel) *Dispatcher {
	return &Dispatcher{L: l, channels: channels}
}

func (d *Dispatcher) Dispatch(n models.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || len(d.channels) == 0 {
		return
	}

	for _, ch := range d.channels {
		d.wg.Add(1)
		go func(ch Channel) {
			defer d.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					d.L.Errorf("%s notification panicked: %v", ch.Name(), r)
				}
			}()
			if err := ch.Notify(n); err != nil {
				d.L.WithFields(logrus.Fields{
					"channel": ch.Name(),
					"kind":    n.Kind,
					"title":   n.Title,
				}).Warnf("notification not delivered: %s", err.Error())
			}
		}(ch)
	}
}

// Close stops accepting notifications and waits for in-flight sends.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()
}

// Wait blocks until every dispatched notification has been attempted.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Dispatch(models.Notification) {}
