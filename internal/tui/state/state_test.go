package state

import (
	"testing"

	"github.com/glabrego/zhihu-cli/internal/zhihu"
)

func TestClampCursor(t *testing.T) {
	if got := ClampCursor(-1, 3); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
	if got := ClampCursor(3, 3); got != 2 {
		t.Fatalf("expected clamp to 2, got %d", got)
	}
	if got := ClampCursor(1, 3); got != 1 {
		t.Fatalf("expected keep 1, got %d", got)
	}
	if got := ClampCursor(5, 0); got != 0 {
		t.Fatalf("expected 0 for empty list, got %d", got)
	}
}

func TestPageStep(t *testing.T) {
	if got := PageStep(0, false); got != 10 {
		t.Fatalf("expected default step 10, got %d", got)
	}
	if got := PageStep(12, false); got != 6 {
		t.Fatalf("expected step 6, got %d", got)
	}
	if got := PageStep(12, true); got != 4 {
		t.Fatalf("expected step 4 with status, got %d", got)
	}
	if got := PageStep(5, true); got != 3 {
		t.Fatalf("expected minimum step 3, got %d", got)
	}
}

func TestCenteredWindow(t *testing.T) {
	if start, end := CenteredWindow(5, 3, 3); start != 2 || end != 5 {
		t.Fatalf("unexpected window: %d-%d", start, end)
	}
	if start, end := CenteredWindow(5, 0, 3); start != 0 || end != 3 {
		t.Fatalf("unexpected window at top: %d-%d", start, end)
	}
	if start, end := CenteredWindow(2, 1, 10); start != 0 || end != 2 {
		t.Fatalf("unexpected window for short list: %d-%d", start, end)
	}
	if start, end := CenteredWindow(0, 0, 10); start != 0 || end != 0 {
		t.Fatalf("unexpected window for empty list: %d-%d", start, end)
	}
}

func TestTopicIndexByID(t *testing.T) {
	topics := []zhihu.Topic{{ID: "1"}, {ID: "2"}}
	if got := TopicIndexByID(topics, "2"); got != 1 {
		t.Fatalf("expected index 1, got %d", got)
	}
	if got := TopicIndexByID(topics, "3"); got != -1 {
		t.Fatalf("expected -1 for missing id, got %d", got)
	}
}

func TestSplitWidth(t *testing.T) {
	cases := []struct{ total, list, content int }{
		{total: 120, list: 40, content: 80},
		{total: 200, list: 48, content: 152},
		{total: 40, list: 20, content: 20},
		{total: 30, list: 15, content: 15},
		{total: 0, list: 0, content: 0},
	}
	for _, tc := range cases {
		list, content := SplitWidth(tc.total)
		if list != tc.list || content != tc.content {
			t.Fatalf("SplitWidth(%d) = %d,%d want %d,%d", tc.total, list, content, tc.list, tc.content)
		}
	}
}
