package reminder

import (
	"fmt"
	"html/template"
	"strings"
)

// priorityOrder fixes the section order of the digest. Unknown priorities are
// appended after the known ones in first-seen order.
var priorityOrder = []string{"High", "Medium", "Low"}

var priorityColors = map[string]string{
	"high":   "#e74c3c",
	"medium": "#f39c12",
	"low":    "#27ae60",
}

type prioritySection struct {
	Priority string
	Color    string
	Class    string
	Tasks    []Task
}

var digestTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
    body {
        font-family: Arial, sans-serif;
        line-height: 1.6;
        color: #333;
        max-width: 800px;
        margin: 0 auto;
        padding: 20px;
    }
    .header {
        background: #2c3e50;
        color: white;
        padding: 20px;
        border-radius: 5px;
        margin-bottom: 20px;
    }
    .priority-section {
        margin-bottom: 30px;
        border: 1px solid #ddd;
        border-radius: 5px;
        padding: 15px;
    }
    .priority-header {
        margin-bottom: 15px;
        padding-bottom: 10px;
        border-bottom: 2px solid #eee;
    }
    .task-card {
        background: #f9f9f9;
        padding: 15px;
        margin-bottom: 15px;
        border-radius: 5px;
        border-left: 4px solid #3498db;
    }
    .task-name {
        font-weight: bold;
        color: #2c3e50;
        font-size: 1.1em;
    }
    .task-details {
        margin-top: 10px;
        color: #666;
    }
    .high-priority { border-left-color: #e74c3c; }
    .medium-priority { border-left-color: #f39c12; }
    .low-priority { border-left-color: #27ae60; }
</style>
</head>
<body>
<div class="header">
    <h1>Task Reminder: Due Within 24 Hours</h1>
    <p>The following tasks require your immediate attention.</p>
</div>
{{- range $section := .}}
<div class="priority-section">
    <div class="priority-header">
        <h2 style="color: {{$section.Color}};">{{$section.Priority}} Priority Tasks ({{len $section.Tasks}} {{if eq (len $section.Tasks) 1}}task{{else}}tasks{{end}})</h2>
    </div>
    {{- range $section.Tasks}}
    <div class="task-card {{$section.Class}}">
        <div class="task-name">{{.Name}}</div>
        <div class="task-details">
            <p>Category: {{.Category}}</p>
            <p>Deadline: {{.Deadline}}</p>
            <p>Status: {{.Status}}</p>
        </div>
    </div>
    {{- end}}
</div>
{{- end}}
</body>
</html>
`))

// RenderDigest builds the HTML reminder email for the given urgent tasks,
// grouped by priority.
func RenderDigest(tasks []Task) (string, error) {
	grouped := make(map[string][]Task)
	var order []string
	for _, t := range tasks {
		if _, ok := grouped[t.Priority]; !ok {
			order = append(order, t.Priority)
		}
		grouped[t.Priority] = append(grouped[t.Priority], t)
	}

	var sections []prioritySection
	seen := make(map[string]bool)
	for _, priority := range priorityOrder {
		if tasks, ok := grouped[priority]; ok {
			sections = append(sections, newSection(priority, tasks))
			seen[priority] = true
		}
	}
	for _, priority := range order {
		if !seen[priority] {
			sections = append(sections, newSection(priority, grouped[priority]))
		}
	}

	var sb strings.Builder
	if err := digestTemplate.Execute(&sb, sections); err != nil {
		return "", fmt.Errorf("failed to render reminder digest: %w", err)
	}
	return sb.String(), nil
}

func newSection(priority string, tasks []Task) prioritySection {
	color, ok := priorityColors[strings.ToLower(priority)]
	if !ok {
		color = "#3498db"
	}
	return prioritySection{
		Priority: priority,
		Color:    color,
		Class:    strings.ToLower(priority) + "-priority",
		Tasks:    tasks,
	}
}
