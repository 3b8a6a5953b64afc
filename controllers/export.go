package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"solarlead-backend/config"
	"solarlead-backend/models"
	"solarlead-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

var leadExportHeader = []string{
	"First Name",
	"Last Name",
	"Phone",
	"Email",
	"Address",
	"City",
	"State",
	"Zip",
	"Lead Source",
	"Product Type",
	"Status",
	"Routing Method",
	"CRM Synced",
	"Webhook Sent",
	"Date Created",
}

// ExportLeads streams the currently-filtered lead set as an xlsx workbook,
// using the same search/status filter as the dashboard list.
func ExportLeads(c *gin.Context) {
	search := c.Query("search")
	status := c.Query("status")

	var leads []models.Lead
	if err := buildLeadFilter(config.DB, search, status).
		Order("date_created DESC").
		Find(&leads).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve leads")
		return
	}

	content, err := generateLeadExport(leads)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate export")
		return
	}

	filename := fmt.Sprintf("leads-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		content)
}

func generateLeadExport(leads []models.Lead) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Leads"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range leadExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for row, lead := range leads {
		values := []interface{}{
			lead.FirstName,
			lead.LastName,
			lead.Phone,
			lead.Email,
			lead.Address,
			lead.City,
			lead.State,
			lead.PostalCode,
			lead.LeadSource,
			lead.ProductType,
			lead.LeadStatus,
			lead.RoutingMethod,
			lead.APISent,
			lead.WebhookSent,
			lead.DateCreated.Format("2006-01-02 15:04"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
