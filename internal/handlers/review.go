package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prsight/prsight/internal/repositories"
	"github.com/prsight/prsight/internal/services"
	"github.com/prsight/prsight/pkg/logger"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
	reportService *services.ReportService
}

func NewReviewHandler(reviewService *services.ReviewService, reportService *services.ReportService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		reportService: reportService,
	}
}

// ListReviews returns all stored reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	reviews, err := h.reviewService.ListReviews()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to list reviews: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// GetReview returns one review by id, 404 when absent
func (h *ReviewHandler) GetReview(c *gin.Context) {
	review, err := h.reviewService.GetReview(c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Review not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to get review: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, review)
}

// ExportReview streams one review as an Excel workbook
func (h *ReviewHandler) ExportReview(c *gin.Context) {
	review, err := h.reviewService.GetReview(c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Review not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to get review: " + err.Error(),
		})
		return
	}

	workbook, err := h.reportService.BuildReviewWorkbook(review)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to build report: " + err.Error(),
		})
		return
	}
	defer workbook.Close()

	filename := fmt.Sprintf("review-%s.xlsx", review.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := workbook.Write(c.Writer); err != nil {
		logger.WithField("review_id", review.ID).Errorf("Failed to write report: %v", err)
	}
}

// ListPullRequests returns all stored pull requests
func (h *ReviewHandler) ListPullRequests(c *gin.Context) {
	prs, err := h.reviewService.ListPullRequests()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to list pull requests: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, prs)
}

// QualityMetrics returns per-review score points
func (h *ReviewHandler) QualityMetrics(c *gin.Context) {
	metrics, err := h.reviewService.QualityMetrics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to list metrics: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, metrics)
}

// SecurityIssues returns all security issues across reviews
func (h *ReviewHandler) SecurityIssues(c *gin.Context) {
	issues, err := h.reviewService.SecurityIssues()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to list security issues: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, issues)
}

// DashboardStats returns aggregate counts and the average quality score
func (h *ReviewHandler) DashboardStats(c *gin.Context) {
	stats, err := h.reviewService.DashboardStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to compute stats: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}
