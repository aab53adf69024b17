package audit

import (
	"context"
	"testing"
	"time"

	eh "github.com/looplab/eventhorizon"
	"github.com/stretchr/testify/assert"

	"github.com/consent-mgmt/consent-validation-service/domain"
)

var auditNow = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

func TestReviewScheduler(t *testing.T) {
	sink := &RecordingSink{}
	scheduler := ReviewScheduler{Sink: sink, Clock: domain.FixedClock(auditNow)}

	t.Run("schedules a review on emergency override", func(t *testing.T) {
		override := &OverrideData{
			RequestID:    "req-003",
			PatientID:    "CR123456789",
			RequesterID:  "dr-emergency-002",
			DataAccessed: []string{"Critical allergy information"},
		}
		event := eh.NewEvent(EmergencyOverrideGranted, override, auditNow)
		assert.NoError(t, scheduler.HandleEvent(context.Background(), event))

		events := sink.Events()
		if assert.Len(t, events, 1) {
			assert.Equal(t, PostEmergencyReviewScheduled, events[0].Type)
			review := events[0].Data.(*ReviewData)
			assert.Equal(t, "req-003", review.RequestID)
			assert.Equal(t, "HIGH", review.Priority)
			assert.Equal(t, "PENDING", review.Status)
			assert.NotEmpty(t, review.TaskID)
			// review must happen within 48 hours of the override
			assert.Equal(t, auditNow.Add(48*time.Hour), review.ReviewDeadline)
		}
	})

	t.Run("ignores unrelated events", func(t *testing.T) {
		before := len(sink.Events())
		event := eh.NewEvent(ConsentUsageLogged, &UsageData{}, auditNow)
		assert.NoError(t, scheduler.HandleEvent(context.Background(), event))
		assert.Len(t, sink.Events(), before)
	})
}

func TestRecordingSink(t *testing.T) {
	sink := &RecordingSink{}
	assert.NoError(t, sink.Emit(context.Background(), TokenRevoked, &RevocationData{TokenRef: "abc"}))
	assert.NoError(t, sink.Emit(context.Background(), TokenRevoked, &RevocationData{TokenRef: "def"}))

	events := sink.Events()
	assert.Len(t, events, 2)
	assert.Equal(t, "abc", events[0].Data.(*RevocationData).TokenRef)
}
