package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONResponse mirrors the envelope of the upstream API for the few JSON
// endpoints served here (health, captcha).
type JSONResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, JSONResponse{Success: true, Data: data})
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, message string) {
	ctx.AbortWithStatusJSON(status, JSONResponse{Success: false, Message: message})
}

// SeeOther redirects after a form post.
func SeeOther(ctx *gin.Context, location string) {
	ctx.Redirect(http.StatusSeeOther, location)
}
