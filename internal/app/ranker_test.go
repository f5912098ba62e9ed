package app

import (
	"testing"
	"time"

	"edu-quiz-service/internal/domain"
)

func TestRankOrdersByPriority(t *testing.T) {
	feed := Rank([]domain.Reminder{
		{ID: "low", Priority: domain.PriorityLow},
		{ID: "urgent", Priority: domain.PriorityUrgent},
		{ID: "medium", Priority: domain.PriorityMedium},
		{ID: "high", Priority: domain.PriorityHigh},
	})

	want := []string{"urgent", "high", "medium", "low"}
	for i, id := range want {
		if feed.Reminders[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, feed.Reminders[i].ID, id)
		}
	}
	if feed.TotalCount != 4 || feed.UrgentCount != 1 {
		t.Fatalf("unexpected counts: %+v", feed)
	}
}

func TestRankBreaksTiesByDeadline(t *testing.T) {
	early := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	late := early.Add(6 * time.Hour)

	feed := Rank([]domain.Reminder{
		{ID: "later", Priority: domain.PriorityUrgent, Deadline: &late},
		{ID: "sooner", Priority: domain.PriorityUrgent, Deadline: &early},
	})
	if feed.Reminders[0].ID != "sooner" {
		t.Fatalf("earlier deadline should rank first: %+v", feed.Reminders)
	}
}

func TestRankStableWithoutDeadlines(t *testing.T) {
	feed := Rank([]domain.Reminder{
		{ID: "first", Priority: domain.PriorityMedium},
		{ID: "second", Priority: domain.PriorityMedium},
		{ID: "third", Priority: domain.PriorityMedium},
	})
	want := []string{"first", "second", "third"}
	for i, id := range want {
		if feed.Reminders[i].ID != id {
			t.Fatalf("stable order broken at %d: %+v", i, feed.Reminders)
		}
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	input := []domain.Reminder{
		{ID: "low", Priority: domain.PriorityLow},
		{ID: "urgent", Priority: domain.PriorityUrgent},
	}
	_ = Rank(input)
	if input[0].ID != "low" {
		t.Fatalf("input slice mutated: %+v", input)
	}
}

func TestRankEmptyInput(t *testing.T) {
	feed := Rank(nil)
	if feed.TotalCount != 0 || feed.UrgentCount != 0 || len(feed.Reminders) != 0 {
		t.Fatalf("expected empty feed, got %+v", feed)
	}
}
