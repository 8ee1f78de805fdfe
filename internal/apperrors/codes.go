package apperrors

// Code is the business status code carried in every response envelope.
//
// User module: 10001 - 19999
// Auth module: 20001 - 29999
// Transport and system: 200, 4xx, 500
type Code int

const (
	CodeSuccess Code = 200

	CodeEmailAlreadyRegistered  Code = 10001
	CodeEmailFormatError        Code = 10002
	CodePasswordLengthNotMatch  Code = 10003
	CodeNicknameLengthNotMatch  Code = 10004
	CodeGenderError             Code = 10005
	CodeInvalidCredentials      Code = 10006
	CodeUserNotExist            Code = 10007
	CodeEmailNotRegistered      Code = 10008
	CodePageSizeError           Code = 10009
	CodeSortByError             Code = 10010

	CodeHeaderMissingAuthorization Code = 20001
	CodeTokenInvalid               Code = 20002
	CodeTokenExpired               Code = 20003
	CodeTokenTypeError             Code = 20004

	CodeBadRequest       Code = 400
	CodeValidationFailed Code = 422
	CodeTooManyRequests  Code = 429
	CodeSystemError      Code = 500
)

var codeMessages = map[Code]string{
	CodeSuccess:                    "success",
	CodeEmailAlreadyRegistered:     "Email is already registered",
	CodeEmailFormatError:           "Email format is invalid",
	CodePasswordLengthNotMatch:     "Password must be between 6 and 40 characters",
	CodeNicknameLengthNotMatch:     "Nickname must be between 2 and 20 characters",
	CodeGenderError:                "Gender is invalid",
	CodeInvalidCredentials:         "Email or password is incorrect",
	CodeUserNotExist:               "User does not exist",
	CodeEmailNotRegistered:         "Email is not registered",
	CodePageSizeError:              "page_size must be between 1 and 100",
	CodeSortByError:                "sort_by must be 0 or 1",
	CodeHeaderMissingAuthorization: "Authorization header required",
	CodeTokenInvalid:               "Token is invalid",
	CodeTokenExpired:               "Token has expired",
	CodeTokenTypeError:             "Token type is not allowed here",
	CodeBadRequest:                 "Bad request",
	CodeValidationFailed:           "Request validation failed",
	CodeTooManyRequests:            "Too many requests. Please try again later.",
	CodeSystemError:                "Internal server error",
}

// Message returns the default client-facing message for the code.
func (c Code) Message() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}
	return codeMessages[CodeSystemError]
}
