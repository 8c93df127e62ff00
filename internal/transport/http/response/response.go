package response

import "github.com/gin-gonic/gin"

const (
	CodeOK                 = 0
	CodeBadRequest         = 40000
	CodeEmailExists        = 40901
	CodeVoteConflict       = 40902
	CodeUnauthorized       = 40100
	CodeTokenExpired       = 40102
	CodeInvalidCredentials = 40101
	CodeForbidden          = 40300
	CodeUserNotFound       = 40401
	CodePostNotFound       = 40402
	CodeVoteNotFound       = 40403
	CodeInternalServer     = 50000
)

type ErrorResponse struct {
	Code   int    `json:"code"`
	Detail string `json:"detail"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(200, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, data)
}

func Message(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, MessageResponse{Message: message})
}

func Error(c *gin.Context, httpStatus, code int, detail string) {
	c.JSON(httpStatus, ErrorResponse{
		Code:   code,
		Detail: detail,
	})
}

// Abort writes the error and stops the handler chain.
func Abort(c *gin.Context, httpStatus, code int, detail string) {
	Error(c, httpStatus, code, detail)
	c.Abort()
}
