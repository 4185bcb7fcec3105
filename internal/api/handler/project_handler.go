package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/work21/portal/internal/core/domain"
	"github.com/work21/portal/internal/core/ports"
)

const maxPageSize = 100

// ProjectHandler serves the project pages: listing, the customer's project
// lifecycle, tasks and applications.
type ProjectHandler struct{}

func NewProjectHandler() *ProjectHandler {
	return &ProjectHandler{}
}

// List returns projects matching the query filters.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Param        status  query     string  false  "Project status"
// @Param        search  query     string  false  "Full-text search"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Param        offset  query     int     false  "Page offset"
// @Success      200     {array}   domain.Project
// @Failure      400     {object}  errorResponse
// @Router       /projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}

	var (
		f      domain.ProjectFilter
		status string
	)
	err = echo.QueryParamsBinder(c).
		String("status", &status).
		String("search", &f.Search).
		Int("limit", &f.Limit).
		Int("offset", &f.Offset).
		BindError()
	if err != nil || f.Limit < 0 || f.Limit > maxPageSize || f.Offset < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	f.Status = domain.ProjectStatus(status)

	projects, err := ws.Backend.ListProjects(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

// Get returns one project.
//
// @Summary      Get project
// @Tags         projects
// @Produce      json
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  domain.Project
// @Failure      404  {object}  errorResponse
// @Router       /projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	return h.withProject(c, func(ctx context.Context, b ports.Backend, id int64) (any, error) {
		return b.GetProject(ctx, id)
	})
}

// Create posts a new project as a draft.
//
// @Summary      Create project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        body  body      projectRequest  true  "Project"
// @Success      201   {object}  domain.Project
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req projectRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	if !req.complete() {
		return echo.NewHTTPError(http.StatusBadRequest, "title, description and budget are required")
	}

	p, err := ws.Backend.CreateProject(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// Update edits the given fields of a project.
//
// @Summary      Update project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id    path      int             true  "Project ID"
// @Param        body  body      projectRequest  true  "Changed fields"
// @Success      200   {object}  domain.Project
// @Failure      400   {object}  errorResponse
// @Router       /projects/{id} [patch]
func (h *ProjectHandler) Update(c echo.Context) error {
	var req projectRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	return h.withProject(c, func(ctx context.Context, b ports.Backend, id int64) (any, error) {
		return b.UpdateProject(ctx, id, req.toDomain())
	})
}

// Publish opens a draft project for applications.
//
// @Summary      Publish project
// @Tags         projects
// @Produce      json
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  domain.Project
// @Router       /projects/{id}/publish [post]
func (h *ProjectHandler) Publish(c echo.Context) error {
	return h.withProject(c, func(ctx context.Context, b ports.Backend, id int64) (any, error) {
		return b.PublishProject(ctx, id)
	})
}

// Complete accepts the delivered work and closes the project.
//
// @Summary      Complete project
// @Tags         projects
// @Produce      json
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  domain.Project
// @Router       /projects/{id}/complete [post]
func (h *ProjectHandler) Complete(c echo.Context) error {
	return h.withProject(c, func(ctx context.Context, b ports.Backend, id int64) (any, error) {
		return b.CompleteProject(ctx, id)
	})
}

// RequestReview hands the work over to the customer for review.
//
// @Summary      Request review
// @Tags         projects
// @Produce      json
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  domain.Project
// @Router       /projects/{id}/request-review [post]
func (h *ProjectHandler) RequestReview(c echo.Context) error {
	return h.withProject(c, func(ctx context.Context, b ports.Backend, id int64) (any, error) {
		return b.RequestReview(ctx, id)
	})
}

// Assign gives the project to a student.
//
// @Summary      Assign project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id    path      int            true  "Project ID"
// @Param        body  body      assignRequest  true  "Student"
// @Success      200   {object}  domain.Project
// @Router       /projects/{id}/assign [post]
func (h *ProjectHandler) Assign(c echo.Context) error {
	var req assignRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	return h.withProject(c, func(ctx context.Context, b ports.Backend, id int64) (any, error) {
		return b.AssignProject(ctx, id, req.StudentID)
	})
}

// ListTasks returns the tasks of a project.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Param        id   path     int  true  "Project ID"
// @Success      200  {array}  domain.Task
// @Router       /projects/{id}/tasks [get]
func (h *ProjectHandler) ListTasks(c echo.Context) error {
	return h.withProject(c, func(ctx context.Context, b ports.Backend, id int64) (any, error) {
		return b.ListTasks(ctx, id)
	})
}

// CreateTask adds a task to a project.
//
// @Summary      Create task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      int          true  "Project ID"
// @Param        body  body      taskRequest  true  "Task"
// @Success      201   {object}  domain.Task
// @Router       /projects/{id}/tasks [post]
func (h *ProjectHandler) CreateTask(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req taskRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	if req.Title == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	task, err := ws.Backend.CreateTask(c.Request().Context(), id, req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

// UpdateTask edits a task.
//
// @Summary      Update task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id       path      int          true  "Project ID"
// @Param        task_id  path      int          true  "Task ID"
// @Param        body     body      taskRequest  true  "Changed fields"
// @Success      200      {object}  domain.Task
// @Router       /projects/{id}/tasks/{task_id} [patch]
func (h *ProjectHandler) UpdateTask(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	taskID, err := pathID(c, "task_id")
	if err != nil {
		return err
	}
	var req taskRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	task, err := ws.Backend.UpdateTask(c.Request().Context(), id, taskID, req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task.
//
// @Summary      Delete task
// @Tags         tasks
// @Param        id       path  int  true  "Project ID"
// @Param        task_id  path  int  true  "Task ID"
// @Success      204
// @Router       /projects/{id}/tasks/{task_id} [delete]
func (h *ProjectHandler) DeleteTask(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	taskID, err := pathID(c, "task_id")
	if err != nil {
		return err
	}

	if err := ws.Backend.DeleteTask(c.Request().Context(), id, taskID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListApplications returns the student applications to a project.
//
// @Summary      List applications
// @Tags         applications
// @Produce      json
// @Param        id   path     int  true  "Project ID"
// @Success      200  {array}  domain.Application
// @Router       /projects/{id}/applications [get]
func (h *ProjectHandler) ListApplications(c echo.Context) error {
	return h.withProject(c, func(ctx context.Context, b ports.Backend, id int64) (any, error) {
		return b.ListApplications(ctx, id)
	})
}

// Apply submits the logged-in student's application.
//
// @Summary      Apply to project
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      int           true  "Project ID"
// @Param        body  body      applyRequest  true  "Application"
// @Success      201   {object}  domain.Application
// @Router       /projects/{id}/apply [post]
func (h *ProjectHandler) Apply(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req applyRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	app, err := ws.Backend.Apply(c.Request().Context(), id, domain.ApplicationInput{
		CoverLetter:   req.CoverLetter,
		ProposedPrice: req.ProposedPrice,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, app)
}

// withProject runs call for the :id project and replies 200 with its result.
func (h *ProjectHandler) withProject(c echo.Context, call func(ctx context.Context, b ports.Backend, id int64) (any, error)) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	out, err := call(c.Request().Context(), ws.Backend, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
