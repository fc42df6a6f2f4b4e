package models

import (
	"encoding/json"
	"testing"
)

func checklist(completed ...bool) []TodoItem {
	items := make([]TodoItem, 0, len(completed))
	for _, done := range completed {
		items = append(items, TodoItem{Text: "step", Completed: done})
	}
	return items
}

func TestApplyChecklistDerivesProgressAndStatus(t *testing.T) {
	cases := []struct {
		name         string
		items        []TodoItem
		wantProgress int
		wantStatus   TaskStatus
	}{
		{"empty checklist", []TodoItem{}, 0, StatusPending},
		{"none completed", checklist(false, false), 0, StatusPending},
		{"half completed", checklist(true, false), 50, StatusInProgress},
		{"one of three", checklist(true, false, false), 33, StatusInProgress},
		{"two of three", checklist(true, true, false), 67, StatusInProgress},
		{"all completed", checklist(true, true), 100, StatusCompleted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := Task{Status: StatusCompleted, Progress: 100}
			task.ApplyChecklist(tc.items)
			if task.Progress != tc.wantProgress {
				t.Errorf("progress = %d, want %d", task.Progress, tc.wantProgress)
			}
			if task.Status != tc.wantStatus {
				t.Errorf("status = %q, want %q", task.Status, tc.wantStatus)
			}
		})
	}
}

func TestMarkCompletedForcesChecklistAndProgress(t *testing.T) {
	task := Task{
		Status:        StatusInProgress,
		Progress:      40,
		TodoChecklist: checklist(true, false, false),
	}
	task.MarkCompleted()

	if task.Status != StatusCompleted {
		t.Errorf("status = %q, want %q", task.Status, StatusCompleted)
	}
	if task.Progress != 100 {
		t.Errorf("progress = %d, want 100", task.Progress)
	}
	for i, item := range task.TodoChecklist {
		if !item.Completed {
			t.Errorf("checklist item %d not completed", i)
		}
	}
}

func TestCompletedTodoCount(t *testing.T) {
	task := Task{TodoChecklist: checklist(true, false, true)}
	if got := task.CompletedTodoCount(); got != 2 {
		t.Errorf("CompletedTodoCount() = %d, want 2", got)
	}
}

func TestStatusSummaryJSONKeys(t *testing.T) {
	out, err := json.Marshal(StatusSummary{All: 4, Pending: 1, InProgress: 2, Completed: 1})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"all":4,"pending":1,"inProgress":2,"completed":1}`
	if string(out) != want {
		t.Errorf("summary JSON = %s, want %s", out, want)
	}
}
