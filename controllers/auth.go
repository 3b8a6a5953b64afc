package controllers

import (
	"net/http"

	"solarlead-backend/config"
	"solarlead-backend/models"
	"solarlead-backend/utils"

	"github.com/gin-gonic/gin"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// invalidCredentials is the single error string for every login failure, so
// responses never reveal whether the email exists.
const invalidCredentials = "Invalid email or password"

// Login matches credentials through the get_member_by_credentials stored
// procedure and issues a JWT carrying the member's role.
func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var members []models.Member
	if err := config.DB.Raw(
		"SELECT * FROM get_member_by_credentials(?, ?)",
		input.Email, input.Password,
	).Scan(&members).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if len(members) == 0 {
		utils.RespondWithError(c, http.StatusUnauthorized, invalidCredentials)
		return
	}
	member := members[0]

	token, err := utils.GenerateToken(member.ID.String(), member.Email, member.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"member": gin.H{
			"id":    member.ID,
			"email": member.Email,
			"name":  member.Name,
			"role":  member.Role,
		},
	})
}

// Me returns the member behind the current token.
func Me(c *gin.Context) {
	memberID, exists := c.Get("memberId")
	if !exists {
		utils.RespondWithError(c, http.StatusInternalServerError, "Member ID not found in context")
		return
	}

	var member models.Member
	if err := config.DB.First(&member, "id = ?", memberID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Member not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"member": gin.H{
			"id":    member.ID,
			"email": member.Email,
			"name":  member.Name,
			"role":  member.Role,
		},
	})
}
