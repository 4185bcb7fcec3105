package domain

import "time"

// ProjectStatus is the backend-owned project lifecycle position.
type ProjectStatus string

const (
	ProjectDraft      ProjectStatus = "draft"
	ProjectOpen       ProjectStatus = "open"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectReview     ProjectStatus = "review"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectCancelled  ProjectStatus = "cancelled"
)

// Project is a paid software project posted by a customer.
type Project struct {
	ID             int64         `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Status         ProjectStatus `json:"status"`
	Budget         float64       `json:"budget"`
	Deadline       *time.Time    `json:"deadline,omitempty"`
	TechStack      TechStack     `json:"tech_stack"`
	CustomerID     int64         `json:"customer_id"`
	AssigneeID     *int64        `json:"assignee_id,omitempty"`
	EstimatedHours *float64      `json:"estimated_hours,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      *time.Time    `json:"updated_at,omitempty"`
}

// ProjectFilter carries the query parameters of GET /projects.
type ProjectFilter struct {
	Status ProjectStatus
	Search string
	Limit  int
	Offset int
}

// ProjectInput is the create/update body for projects. Update sends only the
// non-nil fields.
type ProjectInput struct {
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Budget         *float64   `json:"budget,omitempty"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	TechStack      TechStack  `json:"tech_stack,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
}

// TaskStatus is the progress of a single project task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

// Task is a unit of work inside a project.
type Task struct {
	ID             int64      `json:"id"`
	ProjectID      int64      `json:"project_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Status         TaskStatus `json:"status"`
	AssigneeID     *int64     `json:"assignee_id,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TaskInput is the create/update body for tasks.
type TaskInput struct {
	Title          *string     `json:"title,omitempty"`
	Description    *string     `json:"description,omitempty"`
	Status         *TaskStatus `json:"status,omitempty"`
	AssigneeID     *int64      `json:"assignee_id,omitempty"`
	EstimatedHours *float64    `json:"estimated_hours,omitempty"`
}

// ApplicationStatus is the state of a student's application to a project.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Application is a student's bid on a project.
type Application struct {
	ID            int64             `json:"id"`
	ProjectID     int64             `json:"project_id"`
	StudentID     int64             `json:"student_id"`
	CoverLetter   string            `json:"cover_letter"`
	ProposedPrice *float64          `json:"proposed_price,omitempty"`
	Status        ApplicationStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	Student       *User             `json:"student,omitempty"`
}

// ApplicationInput is the POST /projects/{id}/apply body.
type ApplicationInput struct {
	CoverLetter   string   `json:"cover_letter"`
	ProposedPrice *float64 `json:"proposed_price,omitempty"`
}

// Rating is feedback one participant left for another after a project.
type Rating struct {
	ID         int64     `json:"id"`
	ProjectID  int64     `json:"project_id"`
	FromUserID int64     `json:"from_user_id"`
	ToUserID   int64     `json:"to_user_id"`
	Score      int       `json:"score"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// RatingInput is the POST /ratings body.
type RatingInput struct {
	ProjectID int64  `json:"project_id"`
	ToUserID  int64  `json:"to_user_id"`
	Score     int    `json:"score"`
	Comment   string `json:"comment,omitempty"`
}
