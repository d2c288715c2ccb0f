package model

// Decision Helper collections.
const (
	CollectionTasks      = "tasks"
	CollectionProjects   = "projects"
	CollectionEvents     = "events"
	CollectionEssentials = "essentials"
	CollectionDecisions  = "common_decisions"
)

// Task is a to-do item, optionally attached to a project.
type Task struct {
	Base
	Title       string   `json:"title" validate:"notblank"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Completed   bool     `json:"completed"`
	DueDate     string   `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ProjectID   string   `json:"project_id,omitempty" validate:"omitempty,uuid"`
	Priority    string   `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
}

func (t Task) RecordKey() string   { return "" }
func (t Task) RecordTitle() string { return t.Title }

// Project groups tasks.
type Project struct {
	Base
	Title       string   `json:"title" validate:"notblank"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Completed   bool     `json:"completed"`
	DueDate     string   `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (p Project) RecordKey() string   { return "" }
func (p Project) RecordTitle() string { return p.Title }

// Event is a dated calendar entry.
type Event struct {
	Base
	Title    string   `json:"title" validate:"notblank"`
	Date     string   `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string   `json:"time,omitempty" validate:"omitempty,datetime=15:04"`
	Location string   `json:"location,omitempty"`
	Tags     []string `json:"tags"`
}

func (e Event) RecordKey() string   { return "" }
func (e Event) RecordTitle() string { return e.Title }

// Essential is a recurring must-have item.
type Essential struct {
	Base
	Title     string   `json:"title" validate:"notblank"`
	Category  string   `json:"category,omitempty"`
	Tags      []string `json:"tags"`
	Completed bool     `json:"completed"`
}

func (e Essential) RecordKey() string   { return "" }
func (e Essential) RecordTitle() string { return e.Title }

// CommonDecision is a recurring choice between fixed options.
type CommonDecision struct {
	Base
	Title   string   `json:"title" validate:"notblank"`
	Options []string `json:"options" validate:"min=2,dive,notblank"`
	Chosen  string   `json:"chosen,omitempty"`
	Tags    []string `json:"tags"`
}

func (d CommonDecision) RecordKey() string   { return "" }
func (d CommonDecision) RecordTitle() string { return d.Title }

// HasOption reports whether opt is one of the decision's options.
func (d CommonDecision) HasOption(opt string) bool {
	for _, o := range d.Options {
		if o == opt {
			return true
		}
	}
	return false
}
