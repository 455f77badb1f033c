package response

import (
	"errors"
	"net/http"

	"github.com/jeff007ali/lendledger/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the wire shape of every failed request.
// Clients only ever see the message, never the wrapped cause.
type ErrorBody struct {
	Message string `json:"message"`
}

// OK sends a 200 response. Payloads are flat JSON objects; there is no
// envelope, the payload fields are the response body.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Error sends an error response. It checks if err is an *apperror.AppError
// and maps its status accordingly, otherwise returns 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorBody{Message: appErr.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorBody{Message: "Internal server error"})
}
