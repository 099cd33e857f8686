package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) IsValid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// ParsePriority title-cases s and reports whether the result is a known priority.
func ParsePriority(s string) (Priority, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	r, size := utf8.DecodeRuneInString(s)
	p := Priority(string(unicode.ToUpper(r)) + strings.ToLower(s[size:]))
	return p, p.IsValid()
}

type StatusFilter string

const (
	StatusAll     StatusFilter = "all"
	StatusDone    StatusFilter = "done"
	StatusNotDone StatusFilter = "not_done"
)

func (f StatusFilter) IsValid() bool {
	return f == StatusAll || f == StatusDone || f == StatusNotDone
}

// ParseStatusFilter accepts "pending" as an alias for not_done and treats "" as all.
func ParseStatusFilter(s string) (StatusFilter, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return StatusAll, true
	case "done", "completed":
		return StatusDone, true
	case "not_done", "not-done", "pending":
		return StatusNotDone, true
	default:
		return "", false
	}
}

// Task is a single to-do item. CompletionDate is only non-empty while Done is
// true; CreatedAt is stamped once and is only persisted by the JSON store.
type Task struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Priority       Priority `json:"priority"`
	DueDate        string   `json:"due_date"`
	Done           bool     `json:"done"`
	CompletionDate string   `json:"completion_date,omitempty"`
	CreatedAt      string   `json:"created_at,omitempty"`
}

const (
	CompletionDateLayout = "2006-01-02"
	CreatedAtLayout      = "2006-01-02 15:04"
)
