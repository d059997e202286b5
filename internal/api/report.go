package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutrisync/backend/internal/server"
	"github.com/nutrisync/backend/internal/types"
)

// ReportHandler renders a one-shot health summary across every slice.
type ReportHandler struct {
	sessions *server.SessionRegistry
}

func NewReportHandler(sessions *server.SessionRegistry) *ReportHandler {
	return &ReportHandler{sessions: sessions}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/report", h.GetReport)
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	profile := sess.Profile()
	goals := sess.DailyGoals()

	progress := make(map[string]float64, len(goals.Nutrients))
	for key, p := range goals.Nutrients {
		if p.Target > 0 {
			progress[key] = p.Current / p.Target
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":         profile,
		"goals":           goals,
		"progress":        progress,
		"weeklyCalories":  weeklyAverage(sess.CalorieHistory()),
		"latestWeight":    latestWeight(sess.WeightHistory()),
		"fasting":         sess.Fasting(),
		"gamification":    sess.Gamification(),
		"activeChallenge": sess.Challenge().IsActive,
	})
}

// weeklyAverage is the mean of the last seven daily calorie totals.
func weeklyAverage(history []types.CalorieRecord) float64 {
	if len(history) == 0 {
		return 0
	}
	start := len(history) - 7
	if start < 0 {
		start = 0
	}
	window := history[start:]
	var sum float64
	for _, rec := range window {
		sum += rec.Kcal
	}
	return sum / float64(len(window))
}

func latestWeight(history []types.WeightRecord) *types.WeightRecord {
	if len(history) == 0 {
		return nil
	}
	latest := history[len(history)-1]
	return &latest
}
