package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/spigell/screening/internal/errors"
)

type fakeConn struct {
	subject string
	data    []byte
	err     error
	closed  bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.subject = subject
	f.data = data
	return f.err
}

func (f *fakeConn) Close() { f.closed = true }

func sampleEvent() InterviewCompleted {
	return InterviewCompleted{
		InterviewID:     "iv-1",
		CandidateID:     "c-1",
		JobID:           "j-1",
		Score:           64.5,
		DurationSeconds: 840,
		CompletedAt:     time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestNATSPublisherPublishesJSON(t *testing.T) {
	c := &fakeConn{}
	p := newNATSPublisher(c, "", zap.NewNop())

	require.NoError(t, p.PublishInterviewCompleted(context.Background(), sampleEvent()))
	assert.Equal(t, DefaultSubject, c.subject)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(c.data, &decoded))
	assert.Equal(t, "iv-1", decoded["interviewId"])
	assert.Equal(t, 64.5, decoded["score"])
	assert.Equal(t, float64(840), decoded["durationSeconds"])
	assert.Equal(t, "2024-03-02T10:00:00Z", decoded["completedAt"])

	p.Close()
	assert.True(t, c.closed)
}

func TestNATSPublisherFailure(t *testing.T) {
	core, observed := observer.New(zapcore.ErrorLevel)
	c := &fakeConn{err: errors.New("nats: connection closed")}
	p := newNATSPublisher(c, "custom.subject", zap.New(core))

	err := p.PublishInterviewCompleted(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrTypeInternal))
	assert.Equal(t, "custom.subject", c.subject)
	assert.Equal(t, 1, observed.FilterMessage("failed to publish interview event").Len())
}

func TestLogPublisher(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	p := NewLogPublisher(zap.New(core))

	require.NoError(t, p.PublishInterviewCompleted(context.Background(), sampleEvent()))
	entries := observed.FilterMessage("interview completed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "iv-1", entries[0].ContextMap()["interview_id"])

	NewLogPublisher(nil).Close()
}
