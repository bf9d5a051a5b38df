package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"havana-backend/services"
	"havana-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

// respondServiceError maps the service error taxonomy to HTTP status codes.
func respondServiceError(c *gin.Context, err error) {
	var stockErr *services.InsufficientStockError
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrValidation), errors.As(err, &stockErr):
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
	}
}

// isDuplicateKeyError detects a unique-index violation.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if merr, ok := err.(*mysql.MySQLError); ok {
		return merr.Number == 1062
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// paramID parses the :id path parameter; a bad value writes the 400 itself.
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}
