package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prsight/prsight/internal/models"
	"github.com/prsight/prsight/internal/services"
)

type AnalysisHandler struct {
	analysisService *services.AnalysisService
}

func NewAnalysisHandler(analysisService *services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
	}
}

// AnalyzePullRequest triggers the review pipeline for a GitHub pull request.
// A fetch failure maps to 400, any other pipeline failure to 500.
func (h *AnalysisHandler) AnalyzePullRequest(c *gin.Context) {
	var request models.AnalyzePRRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data: " + err.Error(),
		})
		return
	}

	if err := request.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	result, err := h.analysisService.AnalyzePullRequest(c.Request.Context(), request.RepoURL, request.PRNumber, request.GitHubToken)
	if err != nil {
		var fetchErr *services.FetchError
		if errors.As(err, &fetchErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": fetchErr.Error(),
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"pr_id":     result.PRID,
		"review_id": result.ReviewID,
		"message":   "Analysis completed successfully",
	})
}
