package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

type AppointmentNotice struct {
	AppointmentID string
	PatientName   string
	PatientEmail  string
	DoctorName    string
	Department    string
	Date          string
	Time          string
}

type WelcomeNotice struct {
	Name  string
	Email string
	Role  string
}

// Notifier delivers patient and staff notifications. Delivery itself is an
// external concern; implementations only need to hand the notice off.
type Notifier interface {
	AppointmentBooked(ctx context.Context, n AppointmentNotice) error
	AppointmentReminder(ctx context.Context, n AppointmentNotice) error
	Welcome(ctx context.Context, n WelcomeNotice) error
}

// LogNotifier records notices in the service log.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.Named("notify")}
}

func (l *LogNotifier) AppointmentBooked(_ context.Context, n AppointmentNotice) error {
	l.log.Info("appointment confirmation",
		zap.String("appointmentId", n.AppointmentID),
		zap.String("to", n.PatientEmail),
		zap.String("doctor", n.DoctorName),
		zap.String("date", n.Date),
		zap.String("time", n.Time))
	return nil
}

func (l *LogNotifier) AppointmentReminder(_ context.Context, n AppointmentNotice) error {
	l.log.Info("appointment reminder",
		zap.String("appointmentId", n.AppointmentID),
		zap.String("to", n.PatientEmail),
		zap.String("date", n.Date),
		zap.String("time", n.Time))
	return nil
}

func (l *LogNotifier) Welcome(_ context.Context, n WelcomeNotice) error {
	l.log.Info("welcome", zap.String("to", n.Email), zap.String("role", n.Role))
	return nil
}

// Dispatcher runs notifications in the background. Callers never wait on
// the result; failures and panics are logged and dropped.
type Dispatcher struct {
	notifier Notifier
	log      *zap.Logger
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewDispatcher(n Notifier, log *zap.Logger, timeout time.Duration) *Dispatcher {
	return &Dispatcher{notifier: n, log: log.Named("dispatch"), timeout: timeout}
}

func (d *Dispatcher) Go(name string, send func(ctx context.Context, n Notifier) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error("notification panicked", zap.String("notification", name), zap.String("panic", fmt.Sprint(r)))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := send(ctx, d.notifier); err != nil {
			d.log.Warn("notification failed", zap.String("notification", name), zap.Error(err))
		}
	}()
}

// Wait blocks until in-flight notifications finish. Used on shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
