package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"solarlead-backend/config"
	"solarlead-backend/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	config.DB = gdb
	return mock
}

func leadAt(status string, created time.Time) models.Lead {
	return models.Lead{LeadStatus: status, DateCreated: created}
}

func TestStatusDistribution(t *testing.T) {
	leads := []models.Lead{
		leadAt("New", time.Now()),
		leadAt("New", time.Now()),
		leadAt("Qualified", time.Now()),
		leadAt("Closed Won", time.Now()),
		leadAt("New", time.Now()),
	}

	distribution := statusDistribution(leads)

	require.Len(t, distribution, 3)
	assert.Equal(t, StatusCount{Name: "New", Count: 3}, distribution[0])
	assert.Equal(t, StatusCount{Name: "Qualified", Count: 1}, distribution[1])
	assert.Equal(t, StatusCount{Name: "Closed Won", Count: 1}, distribution[2])
}

func TestBuildTimeSeriesDaily(t *testing.T) {
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	leads := []models.Lead{
		leadAt("New", time.Date(2026, 6, 8, 9, 0, 0, 0, time.UTC)),
		leadAt("New", time.Date(2026, 6, 8, 17, 0, 0, 0, time.UTC)),
		leadAt("New", time.Date(2026, 6, 9, 9, 0, 0, 0, time.UTC)),
	}

	series := buildTimeSeries(leads, "day", 0, now)

	require.Len(t, series, 2)
	assert.Equal(t, TimeSeriesPoint{Date: "6/8", Count: 2, Cumulative: 2}, series[0])
	assert.Equal(t, TimeSeriesPoint{Date: "6/9", Count: 1, Cumulative: 3}, series[1])
}

func TestBuildTimeSeriesMonthlyWithTrailingWindow(t *testing.T) {
	now := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	leads := []models.Lead{
		leadAt("New", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)), // outside 12-month window
		leadAt("New", time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC)),
		leadAt("New", time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC)),
		leadAt("New", time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)),
	}

	series := buildTimeSeries(leads, "month", 12, now)

	require.Len(t, series, 2)
	assert.Equal(t, TimeSeriesPoint{Date: "4/2026", Count: 1, Cumulative: 1}, series[0])
	assert.Equal(t, TimeSeriesPoint{Date: "5/2026", Count: 2, Cumulative: 3}, series[1])
}

func TestBuildTimeSeriesWeekly(t *testing.T) {
	now := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	leads := []models.Lead{
		leadAt("New", time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)), // Monday
		leadAt("New", time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)), // Wednesday, same week
	}

	series := buildTimeSeries(leads, "week", 0, now)

	require.Len(t, series, 1)
	assert.Equal(t, "Week of 3/15", series[0].Date)
	assert.Equal(t, 2, series[0].Count)
}

func TestGetLeadsFiltersAndPaginates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "leads"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "leads"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "phone", "city", "lead_status"}).
			AddRow(uuid.New().String(), "Jane", "Doe", "jane@example.com", "+15125551234", "Austin", "New"))

	r := gin.New()
	r.GET("/api/leads", GetLeads)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/leads?search=austin&status=New&page=1", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Leads      []models.Lead `json:"leads"`
		Total      int           `json:"total"`
		Page       int           `json:"page"`
		TotalPages int           `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Leads, 1)
	assert.Equal(t, "Jane", body.Leads[0].FirstName)
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, 1, body.TotalPages)
}

func TestGetLeadsClampsPageIntoRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := setupMockDB(t)

	// Three leads at pageSize 10: requesting page 7 lands back on page 1.
	mock.ExpectQuery(`SELECT count\(\*\) FROM "leads"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT \* FROM "leads"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name"}))

	r := gin.New()
	r.GET("/api/leads", GetLeads)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/leads?page=7", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Page int `json:"page"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Page)
}
