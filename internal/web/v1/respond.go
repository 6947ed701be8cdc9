package v1

import (
	"github.com/gin-gonic/gin"

	logicv1 "github.com/stocked/stocked/internal/logic/v1"
)

// errorResponse is the only failure body clients ever see.
type errorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// respondError writes the sanitized envelope for err and attaches the full
// error to the gin context so the logging middleware records the source
// chain. Message and status come from the error kind alone.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	kind := logicv1.KindOf(err)
	status := kind.HTTPStatus()
	c.JSON(status, errorResponse{
		Message: kind.ClientMessage(),
		Status:  status,
	})
}
