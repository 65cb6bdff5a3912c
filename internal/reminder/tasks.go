package reminder

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
)

// deadlineLayout matches the export format of the task tracker,
// e.g. "05 - 01 - 2025" for January 5th 2025.
const deadlineLayout = "02 - 01 - 2006"

// Task is a single row of the exported task sheet.
type Task struct {
	Name     string
	Category string
	Deadline string
	Status   string
	Priority string
}

// ParseTasks reads tasks from a CSV export. The first row is the header and
// columns are matched by name, so column order does not matter.
func ParseTasks(r io.Reader) ([]Task, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read task header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Name", "Deadline", "Priority"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("task sheet is missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var tasks []Task
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read task row: %w", err)
		}
		tasks = append(tasks, Task{
			Name:     field(record, "Name"),
			Category: field(record, "Category"),
			Deadline: field(record, "Deadline"),
			Status:   field(record, "Status"),
			Priority: field(record, "Priority"),
		})
	}
	return tasks, nil
}

// IsUrgent reports whether the task's deadline falls within the next 24 hours.
// Tasks whose deadline has already passed are not urgent; they are overdue and
// out of scope for the reminder digest.
func (t Task) IsUrgent(now time.Time) bool {
	deadline, err := time.ParseInLocation(deadlineLayout, t.Deadline, now.Location())
	if err != nil {
		return false
	}
	diff := deadline.Sub(now)
	return diff >= 0 && diff <= 24*time.Hour
}

// FilterUrgent returns the subset of tasks due within the next 24 hours.
func FilterUrgent(tasks []Task, now time.Time) []Task {
	var urgent []Task
	for _, t := range tasks {
		if t.IsUrgent(now) {
			urgent = append(urgent, t)
		}
	}
	return urgent
}
