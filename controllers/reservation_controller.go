package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"guesthouse-backend/models"
	"guesthouse-backend/services"
	"guesthouse-backend/utils"
)

type ReservationController struct {
	Reservations *services.ReservationService
	Availability *services.AvailabilityService
}

func NewReservationController(res *services.ReservationService, avail *services.AvailabilityService) *ReservationController {
	return &ReservationController{Reservations: res, Availability: avail}
}

type PatchStatusPayload struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

type CheckPayload struct {
	// actual timestamp, RFC3339 or YYYY-MM-DD; empty means now
	ActualDate string `json:"actual_date"`
	Note       string `json:"note"`
}

func parseActual(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := utils.ParseDate(raw); err == nil {
		return t, nil
	}
	return time.Time{}, services.Validation("invalid_actual_date", "actual_date must be RFC3339 or YYYY-MM-DD")
}

func (ctrl *ReservationController) Create(c *gin.Context) {
	var in services.CreateReservationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", err.Error())
		return
	}
	r, err := ctrl.Reservations.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, r)
}

func (ctrl *ReservationController) List(c *gin.Context) {
	var f services.ReservationFilter

	if raw := c.Query("status"); raw != "" {
		status := models.ReservationStatus(raw)
		if !status.Valid() {
			utils.JSONError(c, http.StatusBadRequest, "error.unknownStatus", "unknown status "+raw)
			return
		}
		f.Status = &status
	}
	if raw := c.Query("room_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "error.invalidRoomId", "room_id must be an integer")
			return
		}
		roomID := uint(id)
		f.RoomID = &roomID
	}
	if raw := c.Query("customer_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "error.invalidCustomerId", "customer_id must be an integer")
			return
		}
		custID := uint(id)
		f.CustomerID = &custID
	}
	if from := c.Query("from"); from != "" {
		t, err := utils.ParseDate(from)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "error.invalidFrom", err.Error())
			return
		}
		f.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := utils.ParseDate(to)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "error.invalidTo", err.Error())
			return
		}
		end := utils.AddDays(utils.DateOnly(t), 1)
		f.To = &end
	}

	list, err := ctrl.Reservations.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (ctrl *ReservationController) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	r, err := ctrl.Reservations.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, r)
}

func (ctrl *ReservationController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var in services.UpdateReservationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", err.Error())
		return
	}
	r, err := ctrl.Reservations.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, r)
}

func (ctrl *ReservationController) PatchStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var p PatchStatusPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "status is required")
		return
	}
	r, err := ctrl.Reservations.ChangeStatus(c.Request.Context(), id, models.ReservationStatus(p.Status), p.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, r)
}

func (ctrl *ReservationController) CheckIn(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var p CheckPayload
	if err := c.ShouldBindJSON(&p); err != nil && err.Error() != "EOF" {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", err.Error())
		return
	}
	actual, err := parseActual(p.ActualDate)
	if err != nil {
		respondError(c, err)
		return
	}
	r, err := ctrl.Reservations.CheckIn(c.Request.Context(), id, actual, p.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, r)
}

func (ctrl *ReservationController) CheckOut(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var p CheckPayload
	if err := c.ShouldBindJSON(&p); err != nil && err.Error() != "EOF" {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", err.Error())
		return
	}
	actual, err := parseActual(p.ActualDate)
	if err != nil {
		respondError(c, err)
		return
	}
	r, err := ctrl.Reservations.CheckOut(c.Request.Context(), id, actual, p.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, r)
}

func (ctrl *ReservationController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := ctrl.Reservations.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}

// GetAvailability lists every room free for the whole window.
func (ctrl *ReservationController) GetAvailability(c *gin.Context) {
	ci, err := utils.ParseDate(c.Query("check_in"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidCheckIn", err.Error())
		return
	}
	co, err := utils.ParseDate(c.Query("check_out"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidCheckOut", err.Error())
		return
	}
	rooms, err := ctrl.Availability.AvailableRooms(c.Request.Context(), ci, co)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (ctrl *ReservationController) GetCalendar(c *gin.Context) {
	start, err := utils.ParseDate(c.Query("start"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidStart", err.Error())
		return
	}
	end, err := utils.ParseDate(c.Query("end"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidEnd", err.Error())
		return
	}
	entries, err := ctrl.Reservations.Calendar(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, entries)
}
