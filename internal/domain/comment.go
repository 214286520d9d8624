package domain

import "time"

// Comment is a remark left on a task.
type Comment struct {
	ID          string
	TaskID      string
	AuthorEmail string
	Text        string
	CreatedAt   time.Time
}
