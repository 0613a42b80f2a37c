package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"video-digest/domain/model"
	"video-digest/infrastructure/configuration"
	"video-digest/infrastructure/events"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event model.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockPublisher) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestNewPublisher_DefaultsToLog(t *testing.T) {
	publisher, err := events.NewPublisher(context.Background(), configuration.Events{})
	require.NoError(t, err)
	assert.NoError(t, publisher.Publish(context.Background(), events.NewEvent(model.EventAnalysisCompleted, nil)))
}

func TestNewPublisher_UnknownBackend(t *testing.T) {
	_, err := events.NewPublisher(context.Background(), configuration.Events{Backend: "carrier-pigeon"})
	assert.ErrorContains(t, err, "carrier-pigeon")
}

func TestNotifier_SurvivesCancelledRequest(t *testing.T) {
	publisher := new(MockPublisher)
	publisher.On("Publish", mock.MatchedBy(func(ctx context.Context) bool {
		_, hasDeadline := ctx.Deadline()
		return ctx.Err() == nil && hasDeadline
	}), mock.MatchedBy(func(e model.Event) bool {
		return e.Type == model.EventSummaryGenerated && e.ID != "" && e.Data["videoId"] == "dQw4w9WgXcQ"
	})).Return(errors.New("broker down"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events.NewNotifier(publisher).Notify(ctx, model.EventSummaryGenerated, map[string]interface{}{"videoId": "dQw4w9WgXcQ"})
	publisher.AssertExpectations(t)
}

func TestNewEvent(t *testing.T) {
	event := events.NewEvent(model.EventCreditApplied, map[string]interface{}{"minutes": 300})

	_, err := time.Parse(time.RFC3339Nano, event.OccurredAt)
	assert.NoError(t, err)
	assert.Len(t, event.ID, 36)
}

func TestNotifier_NilIsNoop(t *testing.T) {
	var n *events.Notifier
	assert.NotPanics(t, func() { n.Notify(context.Background(), model.EventAnalysisCompleted, nil) })
}

func TestFanout_DeliversToEveryPublisher(t *testing.T) {
	failing := new(MockPublisher)
	failing.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	healthy := new(MockPublisher)
	healthy.On("Publish", mock.Anything, mock.Anything).Return(nil)

	err := events.Fanout{failing, healthy}.Publish(context.Background(), events.NewEvent(model.EventAnalysisCompleted, nil))

	assert.EqualError(t, err, "broker down")
	healthy.AssertNumberOfCalls(t, "Publish", 1)
}
