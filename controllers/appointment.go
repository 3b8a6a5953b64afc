package controllers

import (
	"net/http"

	"solarlead-backend/services"
	"solarlead-backend/utils"

	"github.com/gin-gonic/gin"
)

// AppointmentController forwards agent appointment outcomes to the
// automation webhook.
type AppointmentController struct {
	Webhooks *services.WebhookClient
}

type ConfirmAppointmentInput struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// ConfirmAppointment accepts an agent's appointment outcome. Identity
// arrives as query-string parameters (the agent follows a prefilled link);
// the outcome travels in the body. A reason is required whenever the
// appointment did not complete.
func (ac *AppointmentController) ConfirmAppointment(c *gin.Context) {
	var input ConfirmAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !services.IsValidAppointmentStatus(input.Status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment status")
		return
	}
	if input.Status != "Appointment Completed" && input.Reason == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Reason is required")
		return
	}

	identity := services.AppointmentIdentity{
		AgentEmail: c.Query("email"),
		Phone:      c.Query("phone"),
		FirstName:  c.Query("firstname"),
		LastName:   c.Query("lastname"),
		LeadID:     c.Query("lead_id"),
	}

	if err := ac.Webhooks.ConfirmAppointment(identity, input.Status, input.Reason); err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to send confirmation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Confirmation sent"})
}
