package domain

import "time"

// Status drives the interview lifecycle: PENDING -> IN_PROGRESS -> COMPLETED.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type JobPosting struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Department  string    `json:"department,omitempty"`
	Location    string    `json:"location,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Candidate struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// FullName joins first and last name.
func (c Candidate) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

type Interview struct {
	ID              string     `json:"id"`
	CandidateID     string     `json:"candidateId"`
	JobID           string     `json:"jobId"`
	Status          Status     `json:"status"`
	ScheduledAt     *time.Time `json:"scheduledAt,omitempty"`
	StartedAt       *time.Time `json:"startedAt,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	RecordingURL    string     `json:"videoUrl,omitempty"`
	DurationSeconds int        `json:"duration,omitempty"`
	Score           *float64   `json:"score,omitempty"`
	Feedback        string     `json:"feedback,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// InterviewQuestion is owned by its Interview; Ordinal is 1-based and fixes
// both presentation and scoring order.
type InterviewQuestion struct {
	ID              string `json:"id"`
	InterviewID     string `json:"interviewId"`
	Ordinal         int    `json:"order"`
	Question        string `json:"question"`
	Category        string `json:"category,omitempty"`
	ExpectedMinutes int    `json:"expectedDuration,omitempty"`
	Answer          string `json:"answer,omitempty"`
}

// InterviewReport is an interview joined with everything it references.
type InterviewReport struct {
	Interview Interview           `json:"interview"`
	Candidate Candidate           `json:"candidate"`
	Job       JobPosting          `json:"job"`
	Questions []InterviewQuestion `json:"questions"`
}
