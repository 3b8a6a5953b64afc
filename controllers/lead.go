package controllers

import (
	"errors"
	"net/http"

	"solarlead-backend/config"
	"solarlead-backend/models"
	"solarlead-backend/services"
	"solarlead-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeadController owns the public intake endpoint and the dashboard's
// per-lead operations.
type LeadController struct {
	Pipeline *services.SubmissionPipeline
}

type UpdateLeadStatusInput struct {
	LeadStatus string `json:"leadStatus" binding:"required"`
}

// SubmitLead runs the full submission pipeline for one intake form. The
// endpoint is public: the intake form has no login.
func (lc *LeadController) SubmitLead(c *gin.Context) {
	var input services.SubmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	result, err := lc.Pipeline.Submit(input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPhone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		// Persist failure: nothing downstream was attempted.
		utils.RespondWithError(c, http.StatusInternalServerError, "There was an error submitting your form. Please try again.")
		return
	}

	if !result.Success {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "There was an error submitting your form. Please try again.",
		})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetLead returns one lead with its full form snapshot.
func (lc *LeadController) GetLead(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead ID format")
		return
	}

	var lead models.Lead
	if err := config.DB.First(&lead, "id = ?", leadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Lead not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, lead)
}

// UpdateLeadStatus moves a lead through its lifecycle. Only the status
// changes; submitted form content is never mutated.
func (lc *LeadController) UpdateLeadStatus(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead ID format")
		return
	}

	var input UpdateLeadStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !models.IsValidLeadStatus(input.LeadStatus) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead status")
		return
	}

	result := config.DB.Model(&models.Lead{}).Where("id = ?", leadID).Update("lead_status", input.LeadStatus)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update lead")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Lead not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lead status updated"})
}
