package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wellness-advisor-server/internal/domain"
	"github.com/wellness-advisor-server/internal/feedback"
	"github.com/wellness-advisor-server/internal/middleware"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// feedbackRequest is the body of POST /api/v1/feedback
type feedbackRequest struct {
	AssessmentID string `json:"assessment_id"`
	RuleID       string `json:"rule_id"`
	Helpful      bool   `json:"helpful"`
	Notes        string `json:"notes"`
}

func (s *Server) handleHealth(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status":         "healthy",
		"timestamp":      time.Now().UTC(),
		"version":        Version,
		"feedback_store": "disabled",
	}

	if s.feedback != nil {
		if err := s.feedback.Ping(c.Request.Context()); err != nil {
			s.logger.WithError(err).Warn("Feedback store health check failed")
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["feedback_store"] = "unavailable"
		} else {
			body["feedback_store"] = "ok"
		}
	}

	c.JSON(status, body)
}

func (s *Server) handleListRules(c *gin.Context) {
	rules := s.advisor.Rules()
	c.JSON(http.StatusOK, gin.H{
		"rules":     rules,
		"count":     len(rules),
		"max_score": s.advisor.MaxScore(),
	})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var input domain.FormInput
	if err := c.ShouldBindJSON(&input); err != nil {
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput, "Malformed profile", err.Error())
		return
	}

	assessment, err := s.advisor.Analyze(c.Request.Context(), input)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

func (s *Server) handleRiskTier(c *gin.Context) {
	raw := c.Query("score")
	score, err := strconv.Atoi(raw)
	if err != nil || score < 0 {
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput,
			"score must be a non-negative integer", fmt.Sprintf("score=%q", raw))
		return
	}

	c.JSON(http.StatusOK, s.advisor.AssessRisk(score))
}

func (s *Server) requireFeedbackStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.feedback == nil {
			s.writeError(c, http.StatusServiceUnavailable, domain.ErrStorage, "Feedback storage is not configured", "")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) handleSaveFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput, "Malformed feedback", err.Error())
		return
	}

	fb := &feedback.Feedback{
		AssessmentID: req.AssessmentID,
		RuleID:       req.RuleID,
		Helpful:      req.Helpful,
		Notes:        req.Notes,
	}
	if err := s.feedback.Save(c.Request.Context(), fb); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, fb)
}

func (s *Server) handleListFeedback(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultPageSize)
	if err != nil || limit <= 0 {
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput, "limit must be a positive integer", "")
		return
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput, "offset must be a non-negative integer", "")
		return
	}

	ctx := c.Request.Context()
	entries, err := s.feedback.List(ctx, limit, offset)
	if err != nil {
		s.respondError(c, err)
		return
	}
	total, err := s.feedback.Count(ctx)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if entries == nil {
		entries = []*feedback.Feedback{}
	}

	c.JSON(http.StatusOK, gin.H{
		"feedback": entries,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

func (s *Server) handleGetFeedback(c *gin.Context) {
	fb, err := s.feedback.Get(c.Request.Context(), c.Param("assessment_id"), c.Param("rule_id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if fb == nil {
		s.respondError(c, domain.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, fb)
}

// handleImportFeedback restores an export document sent as the request body.
func (s *Server) handleImportFeedback(c *gin.Context) {
	imported, skipped, err := s.feedback.ImportJSON(c.Request.Context(), c.Request.Body)
	if errors.Is(err, feedback.ErrMalformedExport) {
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput, "Malformed feedback export", err.Error())
		return
	}
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"imported": imported,
		"skipped":  skipped,
	})
}

func (s *Server) handleDeleteFeedback(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput, "id must be a positive integer", "")
		return
	}

	if err := s.feedback.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleExportFeedback(c *gin.Context) {
	filename := fmt.Sprintf("feedback-%s.json", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Type", "application/json")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	n, err := s.feedback.ExportJSON(c.Request.Context(), c.Writer)
	if err != nil {
		// Headers may already be flushed; log and stop
		s.logger.WithError(err).Error("Feedback export failed")
		_ = c.Error(err)
		if !c.Writer.Written() {
			s.respondError(c, err)
		}
		return
	}
	s.logger.WithField("count", n).Info("Exported feedback")
}

// respondError maps service and store errors onto HTTP responses.
func (s *Server) respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		s.writeError(c, http.StatusBadRequest, domain.ErrValidation, verr.Message, verr.Field)
	case errors.Is(err, domain.ErrNotFound):
		s.writeError(c, http.StatusNotFound, domain.ErrNotFoundCode, "Resource not found", "")
	case errors.Is(err, domain.ErrStoreUnavailable):
		s.writeError(c, http.StatusServiceUnavailable, domain.ErrStorage, "Feedback storage temporarily unavailable", "")
	default:
		s.logger.WithError(err).WithField("correlation_id", c.GetString(middleware.CorrelationIDKey)).
			Error("Request failed")
		s.writeError(c, http.StatusInternalServerError, domain.ErrInternalServer, "Internal server error", "")
	}
}

func (s *Server) writeError(c *gin.Context, status int, code, message, details string) {
	c.JSON(status, domain.NewAdvisorError(code, message, details, c.GetString(middleware.CorrelationIDKey)))
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
