package resp

import (
	"errors"
	"net/http"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/apperr"
	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": data})
}
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msg})
}
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": msg})
}
func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": msg})
}
func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": msg})
}
func Conflict(c *gin.Context, err error, extra gin.H) {
	body := gin.H{"ok": false, "error": err.Error()}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusConflict, body)
}
func ServerError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
}

// Error maps the apperr taxonomy onto HTTP statuses. Anything untyped is a
// server error.
func Error(c *gin.Context, err error) {
	var (
		ist *apperr.InvalidStateTransition
		sl  *apperr.ScheduleLocked
		sdc *apperr.StartDateConflict
		dur *apperr.InvalidDuration
		oor *apperr.OutOfServiceRange
		bal *apperr.InsufficientBalance
		val *apperr.Validation
	)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		NotFound(c, err.Error())
	case errors.As(err, &val):
		BadRequest(c, err.Error())
	case errors.As(err, &ist):
		Conflict(c, err, gin.H{"from": ist.From, "to": ist.To})
	case errors.As(err, &sl):
		Conflict(c, err, gin.H{"reason": sl.Reason})
	case errors.As(err, &sdc):
		Conflict(c, err, gin.H{"earliestStartDate": sdc.Earliest.Format("2006-01-02")})
	case errors.As(err, &dur):
		BadRequest(c, err.Error())
	case errors.As(err, &oor):
		BadRequest(c, err.Error())
	case errors.As(err, &bal):
		BadRequest(c, err.Error())
	default:
		ServerError(c, err)
	}
}
