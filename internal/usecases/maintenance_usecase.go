package usecases

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/abelzeko/aquarium-bot/internal/entities"
	"github.com/abelzeko/aquarium-bot/internal/repository"
)

// ErrMissingFields is returned when a new task has no title or description
var ErrMissingFields = errors.New("task title and description are required")

// TaskFilter narrows a task list. Empty fields match everything.
type TaskFilter struct {
	Category entities.Category
	Priority entities.Priority
	Status   entities.TaskStatus
}

// ParseTaskFilter turns a single word into a filter on category, priority or status
func ParseTaskFilter(word string) (TaskFilter, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" || word == "all" {
		return TaskFilter{}, nil
	}
	if c, err := entities.ParseCategory(word); err == nil {
		return TaskFilter{Category: c}, nil
	}
	if p, err := entities.ParsePriority(word); err == nil {
		return TaskFilter{Priority: p}, nil
	}
	switch s := entities.TaskStatus(word); s {
	case entities.TaskCompleted, entities.TaskPending, entities.TaskOverdue:
		return TaskFilter{Status: s}, nil
	}
	return TaskFilter{}, fmt.Errorf("unknown task filter '%s'", word)
}

func (f TaskFilter) match(t entities.MaintenanceTask, now time.Time) bool {
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Status != "" && t.StatusAt(now) != f.Status {
		return false
	}
	return true
}

// TaskSummary counts a chat's tasks by status
type TaskSummary struct {
	Total     int
	Completed int
	Overdue   int
	DueSoon   int
}

// MaintenanceUseCase manages each chat's maintenance schedule
type MaintenanceUseCase struct {
	repo repository.AquariumRepository
	now  func() time.Time
}

// NewMaintenanceUseCase creates a new maintenance use case
func NewMaintenanceUseCase(repo repository.AquariumRepository) *MaintenanceUseCase {
	return &MaintenanceUseCase{
		repo: repo,
		now:  time.Now,
	}
}

// Tasks returns the chat's tasks matching filter, seeding the default schedule on first use
func (uc *MaintenanceUseCase) Tasks(chatID int64, filter TaskFilter) ([]entities.MaintenanceTask, error) {
	now := uc.now()
	if _, err := uc.repo.SeedTasks(chatID, now); err != nil {
		return nil, fmt.Errorf("failed to seed tasks: %w", err)
	}

	all, err := uc.repo.ListTasks(chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	var result []entities.MaintenanceTask
	for _, t := range all {
		if filter.match(t, now) {
			result = append(result, t)
		}
	}
	return result, nil
}

// AddTask validates and stores a new task. Unset fields fall back to a weekly,
// medium priority cleaning task of 15 minutes due one period from now.
func (uc *MaintenanceUseCase) AddTask(chatID int64, task entities.MaintenanceTask) (entities.MaintenanceTask, error) {
	task.Title = strings.TrimSpace(task.Title)
	task.Description = strings.TrimSpace(task.Description)
	if task.Title == "" || task.Description == "" {
		return entities.MaintenanceTask{}, ErrMissingFields
	}

	now := uc.now()
	if _, err := uc.repo.SeedTasks(chatID, now); err != nil {
		return entities.MaintenanceTask{}, fmt.Errorf("failed to seed tasks: %w", err)
	}

	task.ChatID = chatID
	if task.Frequency == "" {
		task.Frequency = entities.FrequencyWeekly
	}
	if task.Priority == "" {
		task.Priority = entities.PriorityMedium
	}
	if task.Category == "" {
		task.Category = entities.CategoryCleaning
	}
	if task.EstimatedDuration <= 0 {
		task.EstimatedDuration = 15
	}
	if task.NextDue.IsZero() {
		task.NextDue = task.Frequency.Next(now)
	}
	task.IsCompleted = false

	added, err := uc.repo.AddTask(task)
	if err != nil {
		return entities.MaintenanceTask{}, fmt.Errorf("failed to add task: %w", err)
	}
	log.Printf("Chat %d added task %s (%s)", chatID, added.ShortID(), added.Title)
	return added, nil
}

// CompleteTask marks the task done now and moves its due date forward by its frequency
func (uc *MaintenanceUseCase) CompleteTask(chatID int64, idPrefix string) (entities.MaintenanceTask, error) {
	task, err := uc.repo.CompleteTask(chatID, idPrefix, uc.now())
	if err != nil {
		return entities.MaintenanceTask{}, err
	}
	log.Printf("Chat %d completed task %s, next due %s", chatID, task.ShortID(), task.NextDue.Format(time.DateOnly))
	return task, nil
}

// DeleteTask removes one of the chat's tasks
func (uc *MaintenanceUseCase) DeleteTask(chatID int64, idPrefix string) (entities.MaintenanceTask, error) {
	task, err := uc.repo.DeleteTask(chatID, idPrefix)
	if err != nil {
		return entities.MaintenanceTask{}, err
	}
	log.Printf("Chat %d deleted task %s", chatID, task.ShortID())
	return task, nil
}

// Summarize counts tasks by status at the use case's current time
func (uc *MaintenanceUseCase) Summarize(tasks []entities.MaintenanceTask) TaskSummary {
	now := uc.now()
	s := TaskSummary{Total: len(tasks)}
	for _, t := range tasks {
		switch {
		case t.StatusAt(now) == entities.TaskCompleted:
			s.Completed++
		case t.StatusAt(now) == entities.TaskOverdue:
			s.Overdue++
		case t.DueSoonAt(now):
			s.DueSoon++
		}
	}
	return s
}

// Reminders reopens tasks whose next occurrence has arrived and returns a reminder
// text for every chat with overdue or due-soon tasks
func (uc *MaintenanceUseCase) Reminders(now time.Time) (map[int64]string, error) {
	reopened, err := uc.repo.ReopenDueTasks(now)
	if err != nil {
		return nil, err
	}
	if reopened > 0 {
		log.Printf("Reopened %d recurring tasks", reopened)
	}

	chats, err := uc.repo.ListChatsWithTasks()
	if err != nil {
		return nil, err
	}

	reminders := make(map[int64]string)
	for _, chatID := range chats {
		tasks, err := uc.repo.ListTasks(chatID)
		if err != nil {
			return nil, err
		}

		var overdue, dueSoon []entities.MaintenanceTask
		for _, t := range tasks {
			if t.StatusAt(now) == entities.TaskOverdue {
				overdue = append(overdue, t)
			} else if t.DueSoonAt(now) {
				dueSoon = append(dueSoon, t)
			}
		}
		if len(overdue) == 0 && len(dueSoon) == 0 {
			continue
		}
		reminders[chatID] = formatReminder(overdue, dueSoon, now)
	}
	return reminders, nil
}

func formatReminder(overdue, dueSoon []entities.MaintenanceTask, now time.Time) string {
	var result strings.Builder
	result.WriteString("🔔 Maintenance reminder\n")
	if len(overdue) > 0 {
		result.WriteString("\n🚨 Overdue:\n")
		for _, t := range overdue {
			result.WriteString(formatTaskLine(t, now))
		}
	}
	if len(dueSoon) > 0 {
		result.WriteString("\n⏰ Due soon:\n")
		for _, t := range dueSoon {
			result.WriteString(formatTaskLine(t, now))
		}
	}
	result.WriteString("\nUse /done [id] when a task is finished.")
	return result.String()
}

func priorityIcon(p entities.Priority) string {
	switch p {
	case entities.PriorityCritical:
		return "🔴"
	case entities.PriorityHigh:
		return "🟠"
	case entities.PriorityMedium:
		return "🟡"
	default:
		return "🟢"
	}
}

func formatTaskLine(t entities.MaintenanceTask, now time.Time) string {
	status := string(t.StatusAt(now))
	if t.DueSoonAt(now) {
		status = "due soon"
	}
	return fmt.Sprintf("%s [%s] %s, due %s (%s, %d min)\n",
		priorityIcon(t.Priority), t.ShortID(), t.Title, t.NextDue.Format(time.DateOnly), status, t.EstimatedDuration)
}

// FormatTasks formats a task list with its summary
func (uc *MaintenanceUseCase) FormatTasks(tasks []entities.MaintenanceTask) string {
	if len(tasks) == 0 {
		return "No maintenance tasks match. Use /addtask to create one."
	}

	now := uc.now()
	s := uc.Summarize(tasks)

	var result strings.Builder
	result.WriteString("🧽 Maintenance Schedule\n")
	result.WriteString(fmt.Sprintf("%d tasks · %d completed · %d overdue · %d due soon\n\n", s.Total, s.Completed, s.Overdue, s.DueSoon))
	for _, t := range tasks {
		result.WriteString(formatTaskLine(t, now))
		result.WriteString(fmt.Sprintf("   %s · %s · %s\n", t.Category, t.Frequency, t.Description))
	}
	result.WriteString("\nUse /done [id] to complete or /deltask [id] to remove a task.")
	return result.String()
}
