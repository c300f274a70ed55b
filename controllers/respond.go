package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"guesthouse-backend/services"
	"guesthouse-backend/utils"
)

// respondError translates the service error taxonomy onto HTTP. Conflicts
// stay distinct from validation failures so the frontend can offer
// alternative rooms or dates.
func respondError(c *gin.Context, err error) {
	var de *services.DomainError
	if !errors.As(err, &de) {
		log.Printf("unclassified error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "internal error")
		return
	}

	status := http.StatusInternalServerError
	switch de.Kind {
	case services.KindValidation:
		status = http.StatusBadRequest
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindConflict:
		status = http.StatusConflict
	case services.KindInfrastructure:
		status = http.StatusServiceUnavailable
		log.Printf("infrastructure error on %s %s: %v", c.Request.Method, c.Request.URL.Path, de.Err)
	}
	utils.JSONError(c, status, de.Code, de.Message)
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidId", "id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}
