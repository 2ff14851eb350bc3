package httpdto

const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeNotFound       = "NOT_FOUND"
	CodeStoreError     = "STORE_ERROR"
	CodeRateLimited    = "RATE_LIMITED"
	CodeTooLarge       = "PAYLOAD_TOO_LARGE"
	CodeInternalError  = "INTERNAL_ERROR"
	CodeUnhealthy      = "UNHEALTHY"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func NewErrorResponse(message string, code string) ErrorResponse {
	return ErrorResponse{
		Message: message,
		Code:    code,
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewMessageResponse(message string) MessageResponse {
	return MessageResponse{Message: message}
}
