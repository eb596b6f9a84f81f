package dto

import "time"

// ErrorResponse is the standardized error payload returned by the API.
//
// Only the generic message is serialized; internal error detail stays
// server-side and is written to the logs instead of the response body.
type ErrorResponse struct {
	Message      string    `json:"error" example:"error fetching stock price data"`
	ErrorDetails string    `json:"-"`
	Timestamp    time.Time `json:"-"`
}

// Error implements the error interface so an ErrorResponse can travel
// through gin's c.Error chain.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails != "" {
		return e.Message + ": " + e.ErrorDetails
	}
	return e.Message
}

// NewErrorResponse builds an ErrorResponse with the given public message and
// an optional inner error kept for logging.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
