package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"vaultcast/internal/model"
	"vaultcast/internal/service"
)

// ListTasks lists tasks, or every task of one project when ?project_id= is set.
func ListTasks(d *service.DecisionHelper) fiber.Handler {
	list := ListRecords[model.Task](d.Tasks)
	return func(c *fiber.Ctx) error {
		projectID := c.Query("project_id")
		if projectID == "" {
			return list(c)
		}
		tasks, err := d.TasksByProject(c.UserContext(), projectID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(service.ListResult[model.Task]{Items: tasks, Total: len(tasks)})
	}
}

// ToggleComplete flips the completion flag of a task or project.
func ToggleComplete[T any](toggle func(ctx context.Context, id string) (*T, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return invalidID(c)
		}
		rec, err := toggle(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(rec)
	}
}

// registerDecisionHelper mounts the decision helper collections on r.
func registerDecisionHelper(r fiber.Router, d *service.DecisionHelper) {
	tasks := r.Group("/tasks")
	tasks.Patch("/:id/complete", ToggleComplete(d.ToggleTask))
	recordRoutes[model.Task](tasks, d.Tasks, ListTasks(d))

	projects := r.Group("/projects")
	projects.Patch("/:id/complete", ToggleComplete(d.ToggleProject))
	recordRoutes[model.Project](projects, d.Projects, nil)

	recordRoutes[model.Event](r.Group("/events"), d.Events, nil)
	recordRoutes[model.Essential](r.Group("/essentials"), d.Essentials, nil)
	recordRoutes[model.CommonDecision](r.Group("/decisions"), d.Decisions, nil)
}
