package utils

import "github.com/gin-gonic/gin"

// APIResponse is the uniform success envelope returned by the booking and
// availability endpoints.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// JSONSuccess sends a standardized JSON success response.
func JSONSuccess(c *gin.Context, status int, message string, data any) {
	c.JSON(status, APIResponse{Success: true, Message: message, Data: data})
}
