package controllers

import (
	"net/http"

	"solarlead-backend/config"
	"solarlead-backend/models"
	"solarlead-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateCustomFieldInput struct {
	Label         string   `json:"label" binding:"required"`
	FieldType     string   `json:"type" binding:"required"`
	SugarCRMField string   `json:"sugarCrmField" binding:"required"`
	Options       []string `json:"options"`
}

// GetCustomFields returns every persistent definition; the form
// instantiates them with empty values on load.
func GetCustomFields(c *gin.Context) {
	var fields []models.CustomFieldDefinition
	if err := config.DB.Where("is_persistent = ?", true).
		Order("created_at ASC").
		Find(&fields).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve custom fields")
		return
	}

	c.JSON(http.StatusOK, fields)
}

// AddCustomField persists a new field definition. Label and CRM mapping are
// both required before a field can be added.
func AddCustomField(c *gin.Context) {
	var input CreateCustomFieldInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !models.IsValidCustomFieldType(input.FieldType) {
		utils.RespondWithError(c, http.StatusBadRequest, "Field type must be text, number, select, checkbox or radio")
		return
	}

	field := models.CustomFieldDefinition{
		Label:         input.Label,
		FieldType:     input.FieldType,
		SugarCRMField: input.SugarCRMField,
		IsPersistent:  true,
	}
	if len(input.Options) > 0 {
		values := make([]interface{}, len(input.Options))
		for i, o := range input.Options {
			values[i] = o
		}
		field.Options = models.JSONB{"values": values}
	}

	if err := config.DB.Create(&field).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create custom field")
		return
	}

	c.JSON(http.StatusCreated, field)
}

// DeleteCustomField removes a persisted definition.
func DeleteCustomField(c *gin.Context) {
	fieldID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid custom field ID format")
		return
	}

	result := config.DB.Where("id = ?", fieldID).Delete(&models.CustomFieldDefinition{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete custom field")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Custom field not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Custom field deleted successfully"})
}
