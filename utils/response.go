package utils

import "github.com/gin-gonic/gin"

// JSONResponse is the uniform envelope for every API response. Code is 0 on
// success; error codes follow the status-prefixed bands used across the
// handlers (400xx validation and like conflicts, 401xx auth, 403xx
// ownership, 404xx missing entities, 500xx store faults).
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, 200, 0, "success", data)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}
