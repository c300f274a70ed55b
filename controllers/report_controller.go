package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"guesthouse-backend/services"
	"guesthouse-backend/utils"
)

type ReportController struct {
	Occupancy *services.OccupancyService
	Revenue   *services.RevenueService
	Dashboard *services.DashboardService
}

func NewReportController(occ *services.OccupancyService, rev *services.RevenueService, dash *services.DashboardService) *ReportController {
	return &ReportController{Occupancy: occ, Revenue: rev, Dashboard: dash}
}

// parseDateOrRange reads either ?date= (single day) or ?start=&end=.
func parseDateOrRange(c *gin.Context) (start, end time.Time, ok bool) {
	if raw := c.Query("date"); raw != "" {
		d, err := utils.ParseDate(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "error.invalidDate", err.Error())
			return start, end, false
		}
		return d, d, true
	}
	s, err := utils.ParseDate(c.Query("start"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidStart", "provide ?date= or ?start=&end= as YYYY-MM-DD")
		return start, end, false
	}
	e, err := utils.ParseDate(c.Query("end"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidEnd", "provide ?date= or ?start=&end= as YYYY-MM-DD")
		return start, end, false
	}
	return s, e, true
}

func (ctrl *ReportController) GetOccupancy(c *gin.Context) {
	start, end, ok := parseDateOrRange(c)
	if !ok {
		return
	}
	if start.Equal(end) {
		daily, err := ctrl.Occupancy.Daily(c.Request.Context(), start)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.JSONSuccess(c, http.StatusOK, daily)
		return
	}
	period, err := ctrl.Occupancy.Period(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, period)
}

func (ctrl *ReportController) GetRevenue(c *gin.Context) {
	start, end, ok := parseDateOrRange(c)
	if !ok {
		return
	}
	report, err := ctrl.Revenue.Period(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, report)
}

func (ctrl *ReportController) GetDashboard(c *gin.Context) {
	snapshot, err := ctrl.Dashboard.Snapshot(c.Request.Context(), time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, snapshot)
}

func (ctrl *ReportController) GetMonthly(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2200 {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidYear", "year must be a 4-digit year")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidMonth", "month must be 1-12")
		return
	}
	report, err := ctrl.Dashboard.Monthly(c.Request.Context(), year, time.Month(month))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, report)
}

func (ctrl *ReportController) GetYearly(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2200 {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidYear", "year must be a 4-digit year")
		return
	}
	report, err := ctrl.Dashboard.Yearly(c.Request.Context(), year)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, report)
}
