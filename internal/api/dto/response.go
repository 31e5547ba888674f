package dto

import "net/http"

// Response is the uniform API envelope. Code mirrors the HTTP status;
// Data is null on failures.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// OK wraps data in a success envelope.
func OK(data any) Response {
	return Response{Code: http.StatusOK, Message: "success", Data: data}
}

// Fail builds a failure envelope.
func Fail(code int, message string) Response {
	return Response{Code: code, Message: message, Data: nil}
}
