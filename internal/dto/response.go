package dto

import (
	"net/http"

	"github.com/weqtian/user_center/internal/apperrors"
)

// Response is the envelope around every JSON body.
type Response struct {
	Code    int            `json:"code" example:"200"`
	Message string         `json:"message" example:"success"`
	Data    any            `json:"data"`
	Details map[string]any `json:"details,omitempty"`
}

// Success wraps data in a success envelope.
func Success(data any) Response {
	return Response{
		Code:    int(apperrors.CodeSuccess),
		Message: apperrors.CodeSuccess.Message(),
		Data:    data,
	}
}

// ErrorResponse converts err to an HTTP status and envelope.
// Errors that are not AppErrors, and system errors, expose only the generic message.
func ErrorResponse(err error) (int, Response) {
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Kind == apperrors.KindSystem {
		return http.StatusInternalServerError, Response{
			Code:    int(apperrors.CodeSystemError),
			Message: apperrors.CodeSystemError.Message(),
		}
	}
	return appErr.HTTPStatus(), Response{
		Code:    int(appErr.Code),
		Message: appErr.Message,
		Details: appErr.Details,
	}
}
