package commons

type Response[T any] struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    *T                `json:"data,omitempty"`
	Errors  []string          `json:"errors,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    &data,
	}
}

func ErrorResponse[T any](message string, errors ...string) Response[T] {
	return Response[T]{
		Success: false,
		Message: message,
		Errors:  errors,
	}
}

// ErrorResponseFrom builds the failure envelope for a domain error,
// carrying any field-level validation details it holds.
func ErrorResponseFrom[T any](message string, err error) Response[T] {
	resp := Response[T]{
		Success: false,
		Message: message,
		Details: DetailsOf(err),
	}
	if err != nil {
		resp.Errors = []string{err.Error()}
	}
	return resp
}
