package notify

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type failingNotifier struct {
	calls atomic.Int32
}

func (f *failingNotifier) AppointmentBooked(context.Context, AppointmentNotice) error {
	f.calls.Add(1)
	return errors.New("smtp down")
}

func (f *failingNotifier) AppointmentReminder(context.Context, AppointmentNotice) error {
	f.calls.Add(1)
	panic("boom")
}

func (f *failingNotifier) Welcome(context.Context, WelcomeNotice) error {
	f.calls.Add(1)
	return nil
}

func TestDispatcherSwallowsFailures(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := &failingNotifier{}
	d := NewDispatcher(n, zap.New(core), time.Second)

	d.Go("booked", func(ctx context.Context, n Notifier) error {
		return n.AppointmentBooked(ctx, AppointmentNotice{})
	})
	d.Go("reminder", func(ctx context.Context, n Notifier) error {
		return n.AppointmentReminder(ctx, AppointmentNotice{})
	})
	d.Wait()

	assert.Equal(t, int32(2), n.calls.Load())
	assert.Equal(t, 1, logs.FilterMessage("notification failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("notification panicked").Len())
}

func TestLogNotifierRecordsNotice(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := NewLogNotifier(zap.New(core))

	err := l.AppointmentBooked(context.Background(), AppointmentNotice{AppointmentID: "a1", PatientEmail: "p@x.io"})
	assert.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("appointment confirmation").Len())
}
