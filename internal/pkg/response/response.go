package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"catalog_go/internal/pkg/apperr"
)

// Response Standard API Response
type Response struct {
	Code int         `json:"code"`
	Data interface{} `json:"data,omitempty"`
	Msg  string      `json:"msg,omitempty"`
}

// Success Success response
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: apperr.CodeSuccess,
		Data: data,
		Msg:  "success",
	})
}

// SuccessWithMsg Success with message
func SuccessWithMsg(c *gin.Context, data interface{}, msg string) {
	c.JSON(http.StatusOK, Response{
		Code: apperr.CodeSuccess,
		Data: data,
		Msg:  msg,
	})
}

// Fail Fail response with error, HTTP status follows the business code
func Fail(c *gin.Context, err error) {
	var ae *apperr.AppError
	if errors.As(err, &ae) {
		c.JSON(httpStatus(ae.Code), Response{
			Code: ae.Code,
			Msg:  ae.Message,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, Response{
		Code: apperr.CodeInternalError,
		Msg:  err.Error(),
	})
}

// httpStatus Map business code to HTTP status
func httpStatus(code int) int {
	switch code {
	case apperr.CodeBadRequest:
		return http.StatusBadRequest
	case apperr.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FailWithCode Fail with specific code
func FailWithCode(c *gin.Context, code int, msg string) {
	c.JSON(httpStatus(code), Response{
		Code: code,
		Msg:  msg,
	})
}

// BadRequest Bad request response
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{
		Code: apperr.CodeBadRequest,
		Msg:  msg,
	})
}

// Unauthorized Unauthorized response
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, Response{
		Code: apperr.CodeUnauthorized,
		Msg:  msg,
	})
}

// NotFound Not found response
func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{
		Code: apperr.CodeNotFound,
		Msg:  msg,
	})
}

// Conflict Conflict response
func Conflict(c *gin.Context, msg string) {
	c.JSON(http.StatusConflict, Response{
		Code: apperr.CodeConflict,
		Msg:  msg,
	})
}

// InternalError Internal server error response
func InternalError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, Response{
		Code: apperr.CodeInternalError,
		Msg:  msg,
	})
}
