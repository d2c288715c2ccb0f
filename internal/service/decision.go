package service

import (
	"context"
	"errors"
	"fmt"

	"vaultcast/internal/model"
	"vaultcast/internal/repository"
	"vaultcast/internal/validation"
)

// DecisionHelper groups the productivity collections.
type DecisionHelper struct {
	Tasks      *Records[model.Task, *model.Task]
	Projects   *Records[model.Project, *model.Project]
	Events     *Records[model.Event, *model.Event]
	Essentials *Records[model.Essential, *model.Essential]
	Decisions  *Records[model.CommonDecision, *model.CommonDecision]
}

// NewDecisionHelper wires the decision helper collections and their cross-record rules.
func NewDecisionHelper(repo repository.DocumentRepository) *DecisionHelper {
	d := &DecisionHelper{
		Tasks:      NewRecords[model.Task](repo, model.CollectionTasks),
		Projects:   NewRecords[model.Project](repo, model.CollectionProjects),
		Events:     NewRecords[model.Event](repo, model.CollectionEvents),
		Essentials: NewRecords[model.Essential](repo, model.CollectionEssentials),
		Decisions:  NewRecords[model.CommonDecision](repo, model.CollectionDecisions),
	}
	d.Tasks.check = d.checkTask
	d.Decisions.check = checkDecision
	d.Projects.beforeDelete = d.checkProjectDeletable
	return d
}

func (d *DecisionHelper) checkTask(ctx context.Context, t *model.Task) error {
	if t.ProjectID == "" {
		return nil
	}
	if _, err := d.Projects.Get(ctx, t.ProjectID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return validation.Fail("project_id", "project_id references an unknown project")
		}
		return err
	}
	return nil
}

func checkDecision(_ context.Context, c *model.CommonDecision) error {
	if c.Chosen != "" && !c.HasOption(c.Chosen) {
		return validation.Fail("chosen", "chosen must be one of options")
	}
	return nil
}

func (d *DecisionHelper) checkProjectDeletable(ctx context.Context, p *model.Project) error {
	tasks, err := d.TasksByProject(ctx, p.ID)
	if err != nil {
		return err
	}
	open := 0
	for _, t := range tasks {
		if !t.Completed {
			open++
		}
	}
	if open > 0 {
		return fmt.Errorf("%w: %d open task(s)", ErrProjectHasOpenTasks, open)
	}
	// Completed tasks outlive the project and must stay editable.
	for _, t := range tasks {
		t.ProjectID = ""
		if _, err := d.Tasks.Update(ctx, t.ID, t); err != nil {
			return fmt.Errorf("detach task %s: %w", t.ID, err)
		}
	}
	return nil
}

// TasksByProject returns the tasks attached to projectID.
func (d *DecisionHelper) TasksByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	all, err := d.Tasks.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Task, 0)
	for _, t := range all {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

// ToggleTask flips a task's completion state.
func (d *DecisionHelper) ToggleTask(ctx context.Context, id string) (*model.Task, error) {
	t, err := d.Tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Completed = !t.Completed
	return d.Tasks.Update(ctx, id, *t)
}

// ToggleProject flips a project's completion state.
func (d *DecisionHelper) ToggleProject(ctx context.Context, id string) (*model.Project, error) {
	p, err := d.Projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Completed = !p.Completed
	return d.Projects.Update(ctx, id, *p)
}
