// Package events publishes interview lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	apperrors "github.com/spigell/screening/internal/errors"
)

const (
	DefaultSubject        = "interviews.completed"
	defaultConnectTimeout = 10 * time.Second
)

// InterviewCompleted is emitted once an interview reaches COMPLETED.
type InterviewCompleted struct {
	InterviewID     string    `json:"interviewId"`
	CandidateID     string    `json:"candidateId"`
	JobID           string    `json:"jobId"`
	Score           float64   `json:"score"`
	DurationSeconds int       `json:"durationSeconds"`
	CompletedAt     time.Time `json:"completedAt"`
}

type Publisher interface {
	PublishInterviewCompleted(ctx context.Context, event InterviewCompleted) error
	Close()
}

// conn is the subset of *nats.Conn used for publishing.
type conn interface {
	Publish(subject string, data []byte) error
	Close()
}

type NATSPublisher struct {
	conn    conn
	subject string
	logger  *zap.Logger
}

func NewNATSPublisher(url, subject string, connectTimeout time.Duration, logger *zap.Logger) (*NATSPublisher, error) {
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}

	opts := []nats.Option{
		nats.Name("screening"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	return newNATSPublisher(nc, subject, logger), nil
}

func newNATSPublisher(c conn, subject string, logger *zap.Logger) *NATSPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NATSPublisher{conn: c, subject: subject, logger: logger}
}

func (p *NATSPublisher) PublishInterviewCompleted(_ context.Context, event InterviewCompleted) error {
	data, err := json.Marshal(event)
	if err != nil {
		return apperrors.Internal("marshaling interview event", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		p.logger.Error("failed to publish interview event",
			zap.String("interview_id", event.InterviewID),
			zap.Error(err))
		return apperrors.Internal("publishing to NATS", err)
	}

	p.logger.Debug("published interview event",
		zap.String("interview_id", event.InterviewID),
		zap.String("subject", p.subject))
	return nil
}

func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// LogPublisher records events in the application log only.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishInterviewCompleted(_ context.Context, event InterviewCompleted) error {
	p.logger.Info("interview completed",
		zap.String("interview_id", event.InterviewID),
		zap.String("candidate_id", event.CandidateID),
		zap.String("job_id", event.JobID),
		zap.Float64("score", event.Score),
		zap.Int("duration_seconds", event.DurationSeconds),
		zap.Time("completed_at", event.CompletedAt))
	return nil
}

func (p *LogPublisher) Close() {}
