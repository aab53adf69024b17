package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	eh "github.com/looplab/eventhorizon"

	"github.com/consent-mgmt/consent-validation-service/domain"
	"github.com/consent-mgmt/consent-validation-service/pkg/logger"
)

// Sink is the append-only audit event emitter the decision core writes to.
// The core never formats or prints audit output itself.
type Sink interface {
	Emit(ctx context.Context, eventType eh.EventType, data eh.EventData) error
}

// BusSink publishes audit events on an eventhorizon bus so observers (logger,
// review scheduler, downstream exporters) can subscribe independently.
type BusSink struct {
	Bus   eh.EventBus
	Clock domain.Clock
}

func (s *BusSink) Emit(ctx context.Context, eventType eh.EventType, data eh.EventData) error {
	event := eh.NewEvent(eventType, data, s.Clock.Now())
	if err := s.Bus.PublishEvent(ctx, event); err != nil {
		logger.Logger().WithError(err).Errorf("could not publish audit event %s", eventType)
		return err
	}
	return nil
}

// NopSink discards events. For tests that do not assert on audit output.
type NopSink struct{}

func (NopSink) Emit(context.Context, eh.EventType, eh.EventData) error { return nil }

// RecordingSink keeps emitted events in memory for assertions.
type RecordingSink struct {
	mu     sync.Mutex
	events []RecordedEvent
}

type RecordedEvent struct {
	Type eh.EventType
	Data eh.EventData
}

func (s *RecordingSink) Emit(_ context.Context, eventType eh.EventType, data eh.EventData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, RecordedEvent{Type: eventType, Data: data})
	return nil
}

func (s *RecordingSink) Events() []RecordedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedEvent, len(s.events))
	copy(out, s.events)
	return out
}

const reviewDeadline = 48 * time.Hour

// ReviewScheduler reacts to emergency override grants by scheduling the
// mandatory post-emergency review.
type ReviewScheduler struct {
	Sink  Sink
	Clock domain.Clock
}

func (ReviewScheduler) HandlerType() eh.EventHandlerType {
	return eh.EventHandlerType("PostEmergencyReviewScheduler")
}

func (s ReviewScheduler) HandleEvent(ctx context.Context, event eh.Event) error {
	if event.EventType() != EmergencyOverrideGranted {
		return nil
	}
	override, ok := event.Data().(*OverrideData)
	if !ok {
		return nil
	}
	review := &ReviewData{
		TaskID:         uuid.New().String(),
		RequestID:      override.RequestID,
		PatientID:      override.PatientID,
		RequesterID:    override.RequesterID,
		DataAccessed:   override.DataAccessed,
		ReviewDeadline: s.Clock.Now().Add(reviewDeadline),
		Priority:       "HIGH",
		Status:         "PENDING",
	}
	logger.Logger().Infof("post-emergency review scheduled: task %s for request %s", review.TaskID, review.RequestID)
	return s.Sink.Emit(ctx, PostEmergencyReviewScheduled, review)
}
