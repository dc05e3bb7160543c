package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"vitaplan/health-app/internal/domain"
	"vitaplan/health-app/internal/service"
)

const maxPhotoSize = 10 << 20 // 10 MiB

// ProgressHandler exposes the daily progress endpoints.
type ProgressHandler struct {
	progressService service.ProgressService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// dayRequest is the submission body shared by create and update. Meals and
// workouts are independently optional so a client can log one side at a time.
type dayRequest struct {
	Date              string                   `json:"date" binding:"required"`
	Weight            *float64                 `json:"weight"`
	BodyFatPercentage *float64                 `json:"bodyFatPercentage"`
	Measurements      *domain.BodyMeasurements `json:"measurements"`
	Meals             []domain.LoggedMeal      `json:"meals"`
	Workouts          []domain.LoggedExercise  `json:"workouts"`
}

func (r *dayRequest) toSubmission() (service.DaySubmission, error) {
	day, err := domain.ParseDay(r.Date)
	if err != nil {
		return service.DaySubmission{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", r.Date)
	}
	return service.DaySubmission{
		Day:               day,
		Weight:            r.Weight,
		BodyFatPercentage: r.BodyFatPercentage,
		Measurements:      r.Measurements,
		Meals:             r.Meals,
		Workouts:          r.Workouts,
	}, nil
}

// Record handles POST /api/v1/progress
func (h *ProgressHandler) Record(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req dayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sub, err := req.toSubmission()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	progress, err := h.progressService.RecordDay(c.Request.Context(), userID, sub)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// Update handles PUT /api/v1/progress
func (h *ProgressHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req dayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sub, err := req.toSubmission()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	progress, err := h.progressService.UpdateDay(c.Request.Context(), userID, sub)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func parseDayParam(c *gin.Context, name string) (domain.Day, bool) {
	value := c.Query(name)
	if value == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s query parameter is required", name)})
		return domain.Day{}, false
	}
	day, err := domain.ParseDay(value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s %q, want YYYY-MM-DD", name, value)})
		return domain.Day{}, false
	}
	return day, true
}

// Day handles GET /api/v1/progress/day?date=2024-01-01
func (h *ProgressHandler) Day(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	day, ok := parseDayParam(c, "date")
	if !ok {
		return
	}

	progress, err := h.progressService.GetDay(c.Request.Context(), userID, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// Range handles GET /api/v1/progress/range?start=...&end=...
func (h *ProgressHandler) Range(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	start, ok := parseDayParam(c, "start")
	if !ok {
		return
	}
	end, ok := parseDayParam(c, "end")
	if !ok {
		return
	}

	records, err := h.progressService.GetRange(c.Request.Context(), userID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// Overview handles GET /api/v1/progress
func (h *ProgressHandler) Overview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	overview, err := h.progressService.Overview(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// CompletedDates handles GET /api/v1/progress/completed-dates
func (h *ProgressHandler) CompletedDates(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	dates, err := h.progressService.CompletedDates(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dates)
}

// PlanProgress handles GET /api/v1/progress/plan-status
func (h *ProgressHandler) PlanProgress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	status, err := h.progressService.PlanProgress(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// UploadPhoto handles POST /api/v1/progress/photo?date=... (multipart)
func (h *ProgressHandler) UploadPhoto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	day, ok := parseDayParam(c, "date")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	if fileHeader.Size > maxPhotoSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo exceeds the 10 MiB limit"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read photo"})
		return
	}
	defer file.Close()

	objectKey, err := h.progressService.UploadPhoto(c.Request.Context(), userID, day, file,
		fileHeader.Size, fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"objectKey": objectKey})
}

// PhotoURL handles GET /api/v1/progress/photo?date=...
func (h *ProgressHandler) PhotoURL(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	day, ok := parseDayParam(c, "date")
	if !ok {
		return
	}

	url, err := h.progressService.PhotoURL(c.Request.Context(), userID, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
