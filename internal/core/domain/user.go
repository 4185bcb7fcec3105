package domain

import "time"

// Role is the marketplace role the backend assigned to a user.
type Role string

const (
	RoleStudent  Role = "student"
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User is the read-mostly copy of the backend identity record held by a session.
type User struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	MiddleName        string    `json:"middle_name,omitempty"`
	Role              Role      `json:"role"`
	RatingScore       float64   `json:"rating_score"`
	CompletedProjects int       `json:"completed_projects"`
	IsActive          bool      `json:"is_active"`
	IsVerified        bool      `json:"is_verified"`
	Bio               string    `json:"bio,omitempty"`
	AvatarURL         string    `json:"avatar_url,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	Telegram          string    `json:"telegram,omitempty"`
	GithubURL         string    `json:"github_url,omitempty"`
	PortfolioURL      string    `json:"portfolio_url,omitempty"`
	University        string    `json:"university,omitempty"`
	Course            *int      `json:"course,omitempty"`
	CompanyName       string    `json:"company_name,omitempty"`
	Skills            TechStack `json:"skills,omitempty"`
	CreatedAt         time.Time `json:"created_at,omitempty"`
}

// FullName joins first and last name the way profile headers show it.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Credentials is the login form payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AccessToken is what POST /auth/login returns.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterInput is the registration form payload.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
}

// ProfileUpdate is a partial PATCH /users/me body; nil fields are left untouched.
type ProfileUpdate struct {
	FirstName    *string   `json:"first_name,omitempty"`
	LastName     *string   `json:"last_name,omitempty"`
	MiddleName   *string   `json:"middle_name,omitempty"`
	Bio          *string   `json:"bio,omitempty"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Telegram     *string   `json:"telegram,omitempty"`
	GithubURL    *string   `json:"github_url,omitempty"`
	PortfolioURL *string   `json:"portfolio_url,omitempty"`
	University   *string   `json:"university,omitempty"`
	Course       *int      `json:"course,omitempty"`
	CompanyName  *string   `json:"company_name,omitempty"`
	Skills       TechStack `json:"skills,omitempty"`
}
