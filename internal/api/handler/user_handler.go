package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/work21/portal/internal/core/domain"
)

// UserHandler serves public profiles, the student directory and ratings.
type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// ListStudents returns the student directory.
//
// @Summary      List students
// @Tags         users
// @Produce      json
// @Success      200  {array}  domain.User
// @Router       /students [get]
func (h *UserHandler) ListStudents(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	students, err := ws.Backend.ListStudents(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, students)
}

// Get returns a public profile.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := ws.Backend.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Ratings returns the ratings a user received.
//
// @Summary      User ratings
// @Tags         ratings
// @Produce      json
// @Param        id   path     int  true  "User ID"
// @Success      200  {array}  domain.Rating
// @Router       /users/{id}/ratings [get]
func (h *UserHandler) Ratings(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ratings, err := ws.Backend.UserRatings(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ratings)
}

// Rate leaves feedback for another participant of a project.
//
// @Summary      Create rating
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Param        body  body      ratingRequest  true  "Rating"
// @Success      201   {object}  domain.Rating
// @Failure      400   {object}  errorResponse
// @Router       /ratings [post]
func (h *UserHandler) Rate(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req ratingRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if me := ws.Session.Snapshot().User; me != nil && me.ID == req.ToUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot rate yourself")
	}
	rating, err := ws.Backend.CreateRating(ctx, domain.RatingInput{
		ProjectID: req.ProjectID,
		ToUserID:  req.ToUserID,
		Score:     req.Score,
		Comment:   req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rating)
}
