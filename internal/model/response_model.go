package model

// BaseResponse is the JSON envelope every endpoint answers with.
// Code mirrors the HTTP status and Success is true only for 2xx.
type BaseResponse struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// DataResponse is a BaseResponse carrying a payload.
type DataResponse[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func NewBaseResponse(code int, message string) BaseResponse {
	return BaseResponse{Success: code >= 200 && code < 300, Code: code, Message: message}
}

func NewDataResponse[T any](code int, message string, data T) DataResponse[T] {
	return DataResponse[T]{Success: code >= 200 && code < 300, Code: code, Message: message, Data: data}
}
