package domain

import (
	"errors"
	"testing"
	"time"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from    TaskStatus
		to      TaskStatus
		wantErr error
	}{
		{TaskStatusOpen, TaskStatusCompleted, nil},
		{TaskStatusOpen, TaskStatusArchived, nil},
		{TaskStatusOpen, TaskStatusOpen, nil},
		{TaskStatusCompleted, TaskStatusCompleted, nil},
		{TaskStatusCompleted, TaskStatusOpen, ErrInvalidTransition},
		{TaskStatusCompleted, TaskStatusArchived, ErrInvalidTransition},
		{TaskStatusArchived, TaskStatusOpen, ErrInvalidTransition},
		{TaskStatusArchived, TaskStatusCompleted, ErrInvalidTransition},
		{TaskStatusOpen, TaskStatus("snoozed"), ErrInvalidStatus},
	}

	for _, tt := range tests {
		task := &Task{Status: tt.from}
		err := task.Transition(tt.to)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("%s -> %s: expected error %v, got %v", tt.from, tt.to, tt.wantErr, err)
			continue
		}
		if err == nil && task.Status != tt.to {
			t.Errorf("%s -> %s: status is %s", tt.from, tt.to, task.Status)
		}
		if err != nil && task.Status != tt.from {
			t.Errorf("%s -> %s: failed transition changed status to %s", tt.from, tt.to, task.Status)
		}
	}
}

func TestIsDue(t *testing.T) {
	now := time.Date(2026, 10, 13, 14, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"past_open", Task{Status: TaskStatusOpen, DueAt: &past}, true},
		{"exactly_now", Task{Status: TaskStatusOpen, DueAt: &now}, true},
		{"future", Task{Status: TaskStatusOpen, DueAt: &future}, false},
		{"no_due_time", Task{Status: TaskStatusOpen}, false},
		{"completed", Task{Status: TaskStatusCompleted, DueAt: &past}, false},
		{"archived", Task{Status: TaskStatusArchived, DueAt: &past}, false},
	}
	for _, tt := range tests {
		if got := tt.task.IsDue(now); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestTaskFilterMatches(t *testing.T) {
	task := &Task{UserID: "42", Status: TaskStatusOpen, GoalID: "g1"}

	if !(TaskFilter{}).Matches(task) {
		t.Error("empty filter should match everything")
	}
	if !(TaskFilter{UserID: "42", Status: TaskStatusOpen, GoalID: "g1"}).Matches(task) {
		t.Error("full filter should match")
	}
	if (TaskFilter{UserID: "7"}).Matches(task) {
		t.Error("filter on another user should not match")
	}
	if (TaskFilter{Status: TaskStatusCompleted}).Matches(task) {
		t.Error("filter on another status should not match")
	}
	if (TaskFilter{GoalID: "g2"}).Matches(task) {
		t.Error("filter on another goal should not match")
	}
}
