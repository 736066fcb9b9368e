package response

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/pkg/errs"
)

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Errors  interface{} `json:"errors"`
}

func WriteSuccessResponse(c echo.Context, message string, data interface{}) error {
	return WriteSuccessResponseWithStatus(c, http.StatusOK, message, data)
}

func WriteSuccessResponseWithStatus(c echo.Context, status int, message string, data interface{}) error {
	resp := SuccessResponse{}
	resp.Status = "success"
	resp.Data = data
	resp.Message = message

	return c.JSON(status, resp)
}

// WriteErrorResponse answers with the status mapped from err. Field errors carried by err
// are used when errors is nil.
func WriteErrorResponse(c echo.Context, err error, errors interface{}) error {
	statusCode := errs.GetErrorStatusCode(err)
	resp := ErrorResponse{}
	resp.Status = "error"
	resp.Message = message(err, statusCode)
	resp.Errors = errors
	if resp.Errors == nil {
		if fieldErrors := errs.FieldErrors(err); fieldErrors != nil {
			resp.Errors = fieldErrors
		}
	}

	return c.JSON(statusCode, resp)
}

func message(err error, statusCode int) string {
	switch {
	case errors.Is(err, errs.ErrTimeout):
		return errs.ErrTimeout.Error()
	case errors.Is(err, errs.ErrCircuitOpen):
		return errs.ErrCircuitOpen.Error()
	case statusCode >= http.StatusInternalServerError:
		var herr *errs.HTTPError
		if errors.As(err, &herr) {
			return "inventory API failed to process the request"
		}
	}

	return err.Error()
}
