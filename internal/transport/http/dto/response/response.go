package response

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response общий формат успешного ответа
type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse общий формат ошибки
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func OK(data interface{}) Response {
	return Response{Status: StatusSuccess, Data: data}
}

func Error(code, details string) ErrorResponse {
	return ErrorResponse{Status: StatusError, Error: code, Details: details}
}

// Error codes
const (
	CodeInvalidRequest     = "invalid_request"
	CodeValidationFailed   = "validation_failed"
	CodeAuthentication     = "authentication_failed"
	CodeUnauthorized       = "unauthorized"
	CodeUserExists         = "user_already_exists"
	CodeNotFound           = "not_found"
	CodeEmptyComment       = "empty_comment"
	CodeFileTooLarge       = "file_too_large"
	CodeUnsupportedFile    = "unsupported_file_type"
	CodeInternal           = "internal_error"
	CodeServiceUnavailable = "service_unavailable"
)

var (
	ErrInvalidRequestFormat = Error(CodeInvalidRequest, "Invalid request format")
	ErrUnauthorized         = Error(CodeUnauthorized, "Authentication required")
	ErrAuthenticationFailed = Error(CodeAuthentication, "Invalid email or password")
	ErrUserAlreadyExists    = Error(CodeUserExists, "User with this email already exists")
	ErrInternal             = Error(CodeInternal, "Internal server error")
)
