package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Action names written to the audit log.
const (
	ActionUserRegistered   = "user_registered"
	ActionPasswordChanged  = "password_changed"
	ActionPasswordReset    = "password_reset"
	ActionBookingCreated   = "booking_created"
	ActionBookingStatus    = "booking_status_changed"
	ActionReviewCreated    = "review_created"
	ActionReviewUpdated    = "review_updated"
	ActionReviewDeleted    = "review_deleted"
	ActionReviewModerated  = "review_moderated"
	ActionReviewResponded  = "review_responded"
	ActionGuideVerified    = "guide_verification_changed"
	ActionUserBanned       = "user_ban_changed"
	ActionUserActivated    = "user_activation_changed"
	ActionUserDeleted      = "user_deleted"
	ActionRatingsRecompute = "ratings_recomputed"
)

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

const (
	queueSize    = 100
	writeTimeout = 5 * time.Second
)

// Dispatcher writes audit events from a single background worker. A full
// queue drops the event; auditing never blocks or fails a request.
type Dispatcher struct {
	logger *Logger
	log    *zap.Logger
	queue  chan Event
	wg     sync.WaitGroup
	once   sync.Once
}

func NewDispatcher(logger *Logger, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		log:    log.Named("audit"),
		queue:  make(chan Event, queueSize),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := d.logger.Log(ctx, ev); err != nil {
			d.log.Error("audit write failed", zap.String("action", ev.Action), zap.Error(err))
		}
		cancel()
	}
}

// Dispatch enqueues ev. Safe to call on a nil Dispatcher.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close drains the queue and waits for the worker to finish. Dispatch must
// not be called afterwards.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}
