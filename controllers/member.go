package controllers

import (
	"net/http"

	"solarlead-backend/config"
	"solarlead-backend/models"
	"solarlead-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Member management goes through the manage_members stored procedure. Each
// mutation is one remote call; a failure aborts with no partial state.

type CreateMemberInput struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=admin member"`
}

type UpdateMemberInput struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// GetMembers lists all staff accounts.
func GetMembers(c *gin.Context) {
	var members []models.Member
	if err := config.DB.Raw(
		"SELECT * FROM manage_members('list', NULL, NULL, NULL, NULL, NULL)",
	).Scan(&members).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve members")
		return
	}

	c.JSON(http.StatusOK, members)
}

// AddMember creates a staff account.
func AddMember(c *gin.Context) {
	var input CreateMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var members []models.Member
	if err := config.DB.Raw(
		"SELECT * FROM manage_members('create', NULL, ?, ?, ?, ?)",
		input.Email, input.Name, input.Password, input.Role,
	).Scan(&members).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create member")
		return
	}

	if len(members) == 0 {
		utils.RespondWithError(c, http.StatusConflict, "Member could not be created")
		return
	}

	c.JSON(http.StatusCreated, members[0])
}

// UpdateMember edits a staff account; only provided fields change.
func UpdateMember(c *gin.Context) {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid member ID format")
		return
	}

	var input UpdateMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Role != nil && *input.Role != "admin" && *input.Role != "member" {
		utils.RespondWithError(c, http.StatusBadRequest, "Role must be admin or member")
		return
	}

	var members []models.Member
	if err := config.DB.Raw(
		"SELECT * FROM manage_members('update', ?, ?, ?, ?, ?)",
		memberID, input.Email, input.Name, input.Password, input.Role,
	).Scan(&members).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update member")
		return
	}

	if len(members) == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Member not found")
		return
	}

	c.JSON(http.StatusOK, members[0])
}

// DeleteMember removes a staff account.
func DeleteMember(c *gin.Context) {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid member ID format")
		return
	}

	if err := config.DB.Exec(
		"SELECT * FROM manage_members('delete', ?, NULL, NULL, NULL, NULL)",
		memberID,
	).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete member")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member deleted successfully"})
}
