package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Priority orders reminders; lower ordinal means more urgent.
type Priority int

const (
	PriorityUrgent Priority = iota
	PriorityHigh
	PriorityMedium
	PriorityLow
)

func (p Priority) String() string {
	switch p {
	case PriorityUrgent:
		return "URGENT"
	case PriorityHigh:
		return "HIGH"
	case PriorityMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// MarshalJSON renders the priority as its name so clients never see ordinals.
func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "URGENT":
		*p = PriorityUrgent
	case "HIGH":
		*p = PriorityHigh
	case "MEDIUM":
		*p = PriorityMedium
	case "LOW":
		*p = PriorityLow
	default:
		return fmt.Errorf("unknown priority %q", name)
	}
	return nil
}

// ReminderType tags the data source a reminder was synthesized from.
type ReminderType string

const (
	ReminderQuizDeadline     ReminderType = "QUIZ_DEADLINE"
	ReminderFlashcardDue     ReminderType = "FLASHCARD_DUE"
	ReminderLessonIncomplete ReminderType = "LESSON_INCOMPLETE"
	ReminderCourseProgress   ReminderType = "COURSE_PROGRESS"
	ReminderScheduleToday    ReminderType = "SCHEDULE_TODAY"
	ReminderQuizNoAttempt    ReminderType = "QUIZ_NO_ATTEMPT"
	ReminderLowScoreAlert    ReminderType = "LOW_SCORE_ALERT"
)

// Reminder is an ephemeral projection built fresh on every request; it is
// never persisted.
type Reminder struct {
	ID        string         `json:"id"`
	Type      ReminderType   `json:"type"`
	Priority  Priority       `json:"priority"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Icon      string         `json:"icon"`
	ActionURL string         `json:"actionUrl"`
	Deadline  *time.Time     `json:"deadline,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ReminderFeed is the ranked response for one caller.
type ReminderFeed struct {
	Reminders   []Reminder `json:"reminders"`
	TotalCount  int        `json:"totalCount"`
	UrgentCount int        `json:"urgentCount"`
}
