package entities

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is how often a maintenance task recurs
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
)

// Next returns the due date following a completion at t
func (f Frequency) Next(t time.Time) time.Time {
	switch f {
	case FrequencyDaily:
		return t.AddDate(0, 0, 1)
	case FrequencyMonthly:
		return t.AddDate(0, 1, 0)
	case FrequencyQuarterly:
		return t.AddDate(0, 3, 0)
	default:
		return t.AddDate(0, 0, 7)
	}
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

type Category string

const (
	CategoryWater     Category = "water"
	CategoryCleaning  Category = "cleaning"
	CategoryEquipment Category = "equipment"
	CategoryHealth    Category = "health"
	CategoryFeeding   Category = "feeding"
)

// TaskStatus is derived from a task's completion flag and due date
type TaskStatus string

const (
	TaskCompleted TaskStatus = "completed"
	TaskPending   TaskStatus = "pending"
	TaskOverdue   TaskStatus = "overdue"
)

// DueSoonWindow is how far ahead a pending task counts as due soon
const DueSoonWindow = 48 * time.Hour

// MaintenanceTask is a recurring aquarium chore owned by a chat
type MaintenanceTask struct {
	ID                string
	ChatID            int64
	Title             string
	Description       string
	Frequency         Frequency
	Priority          Priority
	Category          Category
	EstimatedDuration int // minutes
	LastCompleted     time.Time
	NextDue           time.Time
	IsCompleted       bool
}

// StatusAt classifies the task relative to now
func (t MaintenanceTask) StatusAt(now time.Time) TaskStatus {
	if t.IsCompleted {
		return TaskCompleted
	}
	if !t.NextDue.IsZero() && t.NextDue.Before(now) {
		return TaskOverdue
	}
	return TaskPending
}

// DueSoonAt reports whether a pending task falls due within DueSoonWindow
func (t MaintenanceTask) DueSoonAt(now time.Time) bool {
	if t.StatusAt(now) != TaskPending || t.NextDue.IsZero() {
		return false
	}
	return t.NextDue.Sub(now) < DueSoonWindow
}

// ShortID is the prefix of the task id shown to users
func (t MaintenanceTask) ShortID() string {
	if len(t.ID) > 8 {
		return t.ID[:8]
	}
	return t.ID
}

// ParseFrequency validates a frequency name
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly:
		return f, nil
	}
	return "", fmt.Errorf("unknown frequency '%s'", s)
}

// ParsePriority validates a priority name
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return p, nil
	}
	return "", fmt.Errorf("unknown priority '%s'", s)
}

// ParseCategory validates a category name
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategoryWater, CategoryCleaning, CategoryEquipment, CategoryHealth, CategoryFeeding:
		return c, nil
	}
	return "", fmt.Errorf("unknown category '%s'", s)
}
