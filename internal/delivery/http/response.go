package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cfohelper/internal/delivery/http/dto"
)

// Response messages sent to clients
const (
	MsgSignupSuccessful   = "Signup successful"
	MsgLoginSuccessful    = "Login successful"
	MsgHistorySaved       = "History saved"
	MsgUserExists         = "User exists"
	MsgInvalidCredentials = "Invalid credentials"
	MsgUserNotFound       = "User not found"
	MsgInvalidPayload     = "Invalid request payload"
	MsgInternalError      = "Internal server error"
)

// SuccessResponse sends a 200 with data as the whole body
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// MessageResponse sends {"message": ...} with the given status
func MessageResponse(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, dto.MessageResponse{Message: message})
}

// SuccessMessageResponse sends a 200 with a message body
func SuccessMessageResponse(c echo.Context, message string) error {
	return MessageResponse(c, http.StatusOK, message)
}

// BadRequestResponse sends a 400 Bad Request response
func BadRequestResponse(c echo.Context, message string) error {
	return MessageResponse(c, http.StatusBadRequest, message)
}

// InternalServerErrorResponse sends a 500 and keeps err out of the body
func InternalServerErrorResponse(c echo.Context) error {
	return MessageResponse(c, http.StatusInternalServerError, MsgInternalError)
}
