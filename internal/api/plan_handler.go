package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vitaplan/health-app/internal/domain"
	"vitaplan/health-app/internal/service"
)

// PlanHandler exposes plan generation, plan queries and lifecycle endpoints.
type PlanHandler struct {
	plannerService   service.PlannerService
	lifecycleService service.LifecycleService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(plannerService service.PlannerService, lifecycleService service.LifecycleService) *PlanHandler {
	return &PlanHandler{plannerService: plannerService, lifecycleService: lifecycleService}
}

// Generate handles POST /api/v1/plans/generate
func (h *PlanHandler) Generate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	plans, err := h.plannerService.GeneratePlans(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plans)
}

// Active handles GET /api/v1/plans/active
func (h *PlanHandler) Active(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	plans, err := h.plannerService.GetActivePlans(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// ByStatus handles GET /api/v1/plans?status=completed
func (h *PlanHandler) ByStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	status := domain.PlanStatus(c.DefaultQuery("status", string(domain.PlanActive)))

	mealPlans, err := h.plannerService.GetMealPlansByStatus(c.Request.Context(), userID, status)
	if err != nil {
		respondError(c, err)
		return
	}
	workoutPlans, err := h.plannerService.GetWorkoutPlansByStatus(c.Request.Context(), userID, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mealPlans": mealPlans, "workoutPlans": workoutPlans})
}

// MealTemplate handles GET /api/v1/plans/meal/:id/template
func (h *PlanHandler) MealTemplate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}

	template, err := h.plannerService.GetMealTemplate(c.Request.Context(), userID, planID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

// WorkoutExercises handles GET /api/v1/plans/workout/:id/exercises
func (h *PlanHandler) WorkoutExercises(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}

	exercises, err := h.plannerService.GetWorkoutExercises(c.Request.Context(), userID, planID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// Delete handles DELETE /api/v1/plans, removing every plan generated from
// the current active profile.
func (h *PlanHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	deleted, err := h.plannerService.DeletePlansForProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": deleted})
}

type notSuitableRequest struct {
	PlanType string `json:"planType" binding:"required"`
	PlanID   string `json:"planId" binding:"required"`
	Reason   string `json:"reason" binding:"required"`
}

// MarkNotSuitable handles POST /api/v1/plans/not-suitable
func (h *PlanHandler) MarkNotSuitable(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req notSuitableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	planID, err := primitive.ObjectIDFromHex(req.PlanID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}

	feedback, err := h.lifecycleService.MarkNotSuitable(c.Request.Context(), userID, domain.PlanType(req.PlanType), planID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedback)
}

type rebaseRequest struct {
	MealStartDate    string `json:"mealStartDate"`
	WorkoutStartDate string `json:"workoutStartDate"`
}

// Rebase handles POST /api/v1/plans/rebase
func (h *PlanHandler) Rebase(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req rebaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var serviceReq service.RebaseRequest
	if req.MealStartDate != "" {
		day, err := domain.ParseDay(req.MealStartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid mealStartDate: %v", err)})
			return
		}
		serviceReq.MealStart = &day
	}
	if req.WorkoutStartDate != "" {
		day, err := domain.ParseDay(req.WorkoutStartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid workoutStartDate: %v", err)})
			return
		}
		serviceReq.WorkoutStart = &day
	}

	result, err := h.lifecycleService.RebaseStartDates(c.Request.Context(), userID, serviceReq)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Feedback handles GET /api/v1/plans/feedback?planType=meal
func (h *PlanHandler) Feedback(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	planType := domain.PlanType(c.Query("planType"))

	feedback, err := h.lifecycleService.ListFeedback(c.Request.Context(), userID, planType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedback)
}
