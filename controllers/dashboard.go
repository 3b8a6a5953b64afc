package controllers

import (
	"net/http"
	"strconv"
	"time"

	"solarlead-backend/config"
	"solarlead-backend/models"
	"solarlead-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const defaultPageSize = 10

type StatusCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type TimeSeriesPoint struct {
	Date       string `json:"date"`
	Count      int    `json:"count"`
	Cumulative int    `json:"cumulative"`
}

// buildLeadFilter applies the dashboard search and status filters: a
// case-insensitive substring match across the indexed identity fields and
// an optional exact status match. Shared with the xlsx export.
func buildLeadFilter(db *gorm.DB, search, status string) *gorm.DB {
	query := db.Model(&models.Lead{})

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			`first_name ILIKE ? OR last_name ILIKE ? OR (first_name || ' ' || last_name) ILIKE ?
				OR email ILIKE ? OR phone ILIKE ? OR address ILIKE ?
				OR city ILIKE ? OR state ILIKE ? OR postal_code ILIKE ?`,
			pattern, pattern, pattern, pattern, pattern, pattern, pattern, pattern, pattern,
		)
	}

	if status != "" && status != "all" {
		query = query.Where("lead_status = ?", status)
	}

	return query
}

// GetLeads lists leads newest-first with search, status filter and
// pagination. Page is clamped into range so a filter change that shrinks
// the result set lands back on a valid page.
func GetLeads(c *gin.Context) {
	search := c.Query("search")
	status := c.Query("status")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(defaultPageSize)))
	if err != nil || pageSize < 1 {
		pageSize = defaultPageSize
	}

	query := buildLeadFilter(config.DB, search, status)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve leads")
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	var leads []models.Lead
	if err := query.
		Order("date_created DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&leads).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve leads")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leads":      leads,
		"total":      total,
		"page":       page,
		"pageSize":   pageSize,
		"totalPages": totalPages,
	})
}

// GetDashboardAnalytics aggregates leads for the charts: status
// distribution, a time series bucketed by day/week/month with an optional
// trailing window, and a running cumulative count.
func GetDashboardAnalytics(c *gin.Context) {
	timeFrame := c.DefaultQuery("timeFrame", "day")
	if timeFrame != "day" && timeFrame != "week" && timeFrame != "month" {
		utils.RespondWithError(c, http.StatusBadRequest, "timeFrame must be day, week or month")
		return
	}

	// Trailing window in months: 3, 6, 12, 24 or 0 for all time.
	months, err := strconv.Atoi(c.DefaultQuery("months", "0"))
	if err != nil || months < 0 {
		months = 0
	}

	var leads []models.Lead
	if err := config.DB.
		Select("id", "lead_status", "date_created").
		Order("date_created ASC").
		Find(&leads).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve leads")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalLeads":         len(leads),
		"statusDistribution": statusDistribution(leads),
		"timeSeries":         buildTimeSeries(leads, timeFrame, months, time.Now()),
	})
}

// statusDistribution group-counts leads by status in first-seen order.
func statusDistribution(leads []models.Lead) []StatusCount {
	counts := make(map[string]int)
	var order []string
	for _, lead := range leads {
		if _, seen := counts[lead.LeadStatus]; !seen {
			order = append(order, lead.LeadStatus)
		}
		counts[lead.LeadStatus]++
	}

	distribution := make([]StatusCount, 0, len(order))
	for _, status := range order {
		distribution = append(distribution, StatusCount{Name: status, Count: counts[status]})
	}
	return distribution
}

// buildTimeSeries buckets leads by creation time and annotates each bucket
// with the running cumulative count. Leads must arrive sorted by
// date_created ascending so bucket order follows the calendar.
func buildTimeSeries(leads []models.Lead, timeFrame string, months int, now time.Time) []TimeSeriesPoint {
	var cutoff time.Time
	if months > 0 {
		cutoff = now.AddDate(0, -months, 0)
	}

	counts := make(map[string]int)
	var order []string
	for _, lead := range leads {
		if months > 0 && lead.DateCreated.Before(cutoff) {
			continue
		}
		label := utils.BucketLabel(lead.DateCreated, timeFrame)
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	series := make([]TimeSeriesPoint, 0, len(order))
	cumulative := 0
	for _, label := range order {
		cumulative += counts[label]
		series = append(series, TimeSeriesPoint{
			Date:       label,
			Count:      counts[label],
			Cumulative: cumulative,
		})
	}
	return series
}
