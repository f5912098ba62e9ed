package app

import (
	"sort"

	"edu-quiz-service/internal/domain"
)

// Rank orders candidate reminders by priority, breaking ties by ascending
// deadline when both sides carry one. The sort is stable, so entries without
// deadlines keep their original relative order.
func Rank(candidates []domain.Reminder) domain.ReminderFeed {
	ordered := make([]domain.Reminder, len(candidates))
	copy(ordered, candidates)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority < ordered[j].Priority
		}
		if ordered[i].Deadline != nil && ordered[j].Deadline != nil {
			return ordered[i].Deadline.Before(*ordered[j].Deadline)
		}
		return false
	})

	urgent := 0
	for _, r := range ordered {
		if r.Priority == domain.PriorityUrgent {
			urgent++
		}
	}
	return domain.ReminderFeed{
		Reminders:   ordered,
		TotalCount:  len(ordered),
		UrgentCount: urgent,
	}
}
