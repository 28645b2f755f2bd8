package state

import "github.com/glabrego/zhihu-cli/internal/zhihu"

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// PageStep is how far pgup/pgdown move the topic cursor.
func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 6
	if hasStatus {
		headerLines += 2
	}
	step := height - headerLines
	if step < 3 {
		step = 3
	}
	return step
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

func TopicIndexByID(topics []zhihu.Topic, id string) int {
	for i, topic := range topics {
		if topic.ID == id {
			return i
		}
	}
	return -1
}

// SplitWidth divides the terminal between the topic list and the content
// pane, giving the list roughly a third.
func SplitWidth(total int) (list, content int) {
	if total <= 0 {
		return 0, 0
	}
	list = total / 3
	if list < 20 {
		list = min(20, total/2)
	}
	if list > 48 {
		list = 48
	}
	return list, total - list
}
