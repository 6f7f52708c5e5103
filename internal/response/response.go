package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every endpoint answers with the same envelope: a success flag, a
// human-readable message and optional payload fields.

// OK writes a 200 success envelope merged with the payload fields.
func OK(c *gin.Context, message string, payload gin.H) {
	write(c, http.StatusOK, true, message, payload)
}

// BadRequest writes a 400 failure envelope.
func BadRequest(c *gin.Context, message string) {
	write(c, http.StatusBadRequest, false, message, nil)
}

// NotFound writes a 404 failure envelope.
func NotFound(c *gin.Context, message string) {
	write(c, http.StatusNotFound, false, message, nil)
}

// InternalError writes a 500 failure envelope with a generic message.
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Something went wrong. Please try again later."
	}
	write(c, http.StatusInternalServerError, false, message, nil)
}

func write(c *gin.Context, status int, success bool, message string, payload gin.H) {
	body := gin.H{
		"success": success,
		"message": message,
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}
