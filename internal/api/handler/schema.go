package handler

import (
	"time"

	"github.com/work21/portal/internal/core/domain"
)

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name"  validate:"required,max=100"`
	Role      string `json:"role"       validate:"required,oneof=student customer"`
}

func (r registerRequest) toDomain() domain.RegisterInput {
	return domain.RegisterInput{
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Role:      domain.Role(r.Role),
	}
}

type profileRequest struct {
	FirstName    *string          `json:"first_name"    validate:"omitempty,min=1,max=100"`
	LastName     *string          `json:"last_name"     validate:"omitempty,min=1,max=100"`
	MiddleName   *string          `json:"middle_name"   validate:"omitempty,max=100"`
	Bio          *string          `json:"bio"           validate:"omitempty,max=2000"`
	AvatarURL    *string          `json:"avatar_url"    validate:"omitempty,url"`
	Phone        *string          `json:"phone"         validate:"omitempty,max=32"`
	Telegram     *string          `json:"telegram"      validate:"omitempty,max=64"`
	GithubURL    *string          `json:"github_url"    validate:"omitempty,url"`
	PortfolioURL *string          `json:"portfolio_url" validate:"omitempty,url"`
	University   *string          `json:"university"    validate:"omitempty,max=200"`
	Course       *int             `json:"course"        validate:"omitempty,gte=1,lte=6"`
	CompanyName  *string          `json:"company_name"  validate:"omitempty,max=200"`
	Skills       domain.TechStack `json:"skills"`
}

func (r profileRequest) toDomain() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		MiddleName:   r.MiddleName,
		Bio:          r.Bio,
		AvatarURL:    r.AvatarURL,
		Phone:        r.Phone,
		Telegram:     r.Telegram,
		GithubURL:    r.GithubURL,
		PortfolioURL: r.PortfolioURL,
		University:   r.University,
		Course:       r.Course,
		CompanyName:  r.CompanyName,
		Skills:       r.Skills,
	}
}

type projectRequest struct {
	Title          *string          `json:"title"           validate:"omitempty,min=3,max=200"`
	Description    *string          `json:"description"     validate:"omitempty,min=10"`
	Budget         *float64         `json:"budget"          validate:"omitempty,gt=0"`
	Deadline       *time.Time       `json:"deadline"`
	TechStack      domain.TechStack `json:"tech_stack"`
	EstimatedHours *float64         `json:"estimated_hours" validate:"omitempty,gt=0"`
}

// complete reports whether the fields a new project needs are present.
func (r projectRequest) complete() bool {
	return r.Title != nil && r.Description != nil && r.Budget != nil
}

func (r projectRequest) toDomain() domain.ProjectInput {
	return domain.ProjectInput{
		Title:          r.Title,
		Description:    r.Description,
		Budget:         r.Budget,
		Deadline:       r.Deadline,
		TechStack:      r.TechStack,
		EstimatedHours: r.EstimatedHours,
	}
}

type assignRequest struct {
	StudentID int64 `json:"student_id" validate:"required,gt=0"`
}

type taskRequest struct {
	Title          *string  `json:"title"           validate:"omitempty,min=1,max=200"`
	Description    *string  `json:"description"`
	Status         *string  `json:"status"          validate:"omitempty,oneof=todo in_progress done"`
	AssigneeID     *int64   `json:"assignee_id"     validate:"omitempty,gt=0"`
	EstimatedHours *float64 `json:"estimated_hours" validate:"omitempty,gt=0"`
}

func (r taskRequest) toDomain() domain.TaskInput {
	in := domain.TaskInput{
		Title:          r.Title,
		Description:    r.Description,
		AssigneeID:     r.AssigneeID,
		EstimatedHours: r.EstimatedHours,
	}
	if r.Status != nil {
		st := domain.TaskStatus(*r.Status)
		in.Status = &st
	}
	return in
}

type applyRequest struct {
	CoverLetter   string   `json:"cover_letter"   validate:"required,min=10,max=5000"`
	ProposedPrice *float64 `json:"proposed_price" validate:"omitempty,gt=0"`
}

type ratingRequest struct {
	ProjectID int64  `json:"project_id" validate:"required,gt=0"`
	ToUserID  int64  `json:"to_user_id" validate:"required,gt=0"`
	Score     int    `json:"score"      validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment"    validate:"max=2000"`
}

type estimateRequest struct {
	Description string `json:"description" validate:"required,min=10,max=10000"`
}

type themeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark system"`
}

type themeResponse struct {
	Theme domain.Theme `json:"theme"`
}

// errorResponse mirrors the envelope of the central error handler, for docs.
type errorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}
