package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of events the portal emits
type EventType string

const (
	EventAssignmentAssigned   EventType = "assignment.assigned"
	EventAssignmentDraftSaved EventType = "assignment.draft_saved"
)

const (
	EventSource  = "teacher-portal"
	EventVersion = "1.0"
)

// Event is the envelope shared by all events
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// AssignmentAssignedEvent announces a live assignment to downstream consumers
// (student app, notifications).
type AssignmentAssignedEvent struct {
	AssignmentID   string     `json:"assignment_id"`
	ClassID        string     `json:"class_id"`
	Title          string     `json:"title"`
	Type           string     `json:"type"`
	TeacherID      string     `json:"teacher_id"`
	StudentIDs     []string   `json:"student_ids"`
	SkillIDs       []string   `json:"skill_ids"`
	TotalQuestions int        `json:"total_questions"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
}

type AssignmentDraftSavedEvent struct {
	AssignmentID string `json:"assignment_id"`
	ClassID      string `json:"class_id"`
	Title        string `json:"title"`
	TeacherID    string `json:"teacher_id"`
}

// NewEvent wraps data in an envelope stamped with a fresh id and time.
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    EventSource,
		Version:   EventVersion,
		Data:      data,
	}
}

func NewAssignmentAssignedEvent(data AssignmentAssignedEvent) *Event {
	return NewEvent(EventAssignmentAssigned, data)
}

func NewAssignmentDraftSavedEvent(data AssignmentDraftSavedEvent) *Event {
	return NewEvent(EventAssignmentDraftSaved, data)
}
