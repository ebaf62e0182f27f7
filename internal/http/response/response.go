package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/collab-backend/internal/platform/apierr"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, Envelope{Success: false, Error: msg, Code: code})
}

func AbortError(c *gin.Context, status int, code string, err error) {
	RespondError(c, status, code, err)
	c.Abort()
}

// RespondFromError renders a service error with the status its code maps to.
// The raw cause is attached to the gin context for the request logger.
func RespondFromError(c *gin.Context, err error) {
	api := apierr.FromError(err)
	if api == nil {
		RespondOK(c, nil)
		return
	}
	_ = c.Error(err)
	RespondError(c, api.Status, api.Code, api.Err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: payload})
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: payload})
}
