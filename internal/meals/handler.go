package meals

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dailydiet/internal/users"
	"dailydiet/internal/validation"
)

// Handler handles HTTP requests for meals.
// Every method receives the caller resolved by the session authorizer.
type Handler struct {
	service Service
	loc     *time.Location
}

// NewHandler creates a new meals handler; loc interprets dates without an offset
func NewHandler(service Service, loc *time.Location) *Handler {
	validation.Register()
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{service: service, loc: loc}
}

// CreateMeal handles POST /meals
func (h *Handler) CreateMeal(c *gin.Context, user users.User) {
	var req CreateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validation.Message(err)})
		return
	}

	date, err := req.Date.Millis(h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	_, err = h.service.Create(c.Request.Context(), user.ID, NewMeal{
		Name:        req.Name,
		Description: req.Description,
		Date:        date,
		Diet:        *req.Diet,
	})
	if err != nil {
		h.internalError(c, "Failed to create meal", err)
		return
	}

	c.Status(http.StatusCreated)
}

// ListMeals handles GET /meals
func (h *Handler) ListMeals(c *gin.Context, user users.User) {
	meals, err := h.service.List(c.Request.Context(), user.ID)
	if err != nil {
		h.internalError(c, "Failed to list meals", err)
		return
	}

	c.JSON(http.StatusOK, MealsResponse{Meals: meals})
}

// GetMeal handles GET /meals/:id
func (h *Handler) GetMeal(c *gin.Context, user users.User) {
	mealID, ok := h.mealID(c)
	if !ok {
		return
	}

	meal, err := h.service.Get(c.Request.Context(), user.ID, mealID)
	if err != nil {
		h.serviceError(c, "Failed to get meal", err)
		return
	}

	c.JSON(http.StatusOK, MealResponse{Meal: meal})
}

// UpdateMeal handles PATCH /meals/:id
func (h *Handler) UpdateMeal(c *gin.Context, user users.User) {
	mealID, ok := h.mealID(c)
	if !ok {
		return
	}

	var req UpdateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validation.Message(err)})
		return
	}

	patch := MealPatch{
		Name:        req.Name,
		Description: req.Description,
		Diet:        req.Diet,
	}
	if req.Date != nil {
		date, err := req.Date.Millis(h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		patch.Date = &date
	}

	if err := h.service.Update(c.Request.Context(), user.ID, mealID, patch); err != nil {
		h.serviceError(c, "Failed to update meal", err)
		return
	}

	c.Status(http.StatusCreated)
}

// DeleteMeal handles DELETE /meals/:id
func (h *Handler) DeleteMeal(c *gin.Context, user users.User) {
	mealID, ok := h.mealID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), user.ID, mealID); err != nil {
		h.serviceError(c, "Failed to delete meal", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetMetrics handles GET /meals/metrics
func (h *Handler) GetMetrics(c *gin.Context, user users.User) {
	metrics, err := h.service.Metrics(c.Request.Context(), user.ID)
	if err != nil {
		h.internalError(c, "Failed to compute metrics", err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}

// mealID validates the :id path parameter, writing a 400 when it is not a UUID
func (h *Handler) mealID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid meal id"})
		return "", false
	}
	return id.String(), true
}

func (h *Handler) serviceError(c *gin.Context, msg string, err error) {
	if errors.Is(err, ErrMealNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "meal not found"})
		return
	}
	h.internalError(c, msg, err)
}

func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	slog.ErrorContext(c.Request.Context(), msg,
		"error", err,
		"request_id", c.GetString("request_id"),
	)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
