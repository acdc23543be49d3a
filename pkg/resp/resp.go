package resp

import (
	"errors"
	"net/http"

	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/apperr"

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
func ServerError(c *gin.Context, err error) {
	// No stack traces or internal identifiers in responses.
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
}

// Error maps the error taxonomy onto HTTP status codes. Foreign errors become
// opaque 500s; taxonomy errors answer with kind, code and reason.
func Error(c *gin.Context, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		ServerError(c, err)
		return
	}

	var status int
	switch e.Kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindForbiddenRole:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindStateConflict:
		status = http.StatusConflict
	case apperr.KindPaymentFailure:
		status = http.StatusBadRequest
	case apperr.KindPaymentIndeterminate:
		// Uncertain, not failed: the caller must reconcile, not retry blindly.
		status = http.StatusAccepted
	default:
		ServerError(c, err)
		return
	}

	c.JSON(status, gin.H{
		"ok":    false,
		"kind":  e.Kind.String(),
		"code":  e.Code,
		"error": e.Message,
	})
}
