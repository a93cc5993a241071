package util

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

type ErrorBody struct {
	Type    ErrorKind `json:"type"`
	Message string    `json:"message"`
}

type Response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  *ErrorBody  `json:"error,omitempty"`
}

func SuccessResponse(data interface{}) Response {
	return Response{Status: StatusSuccess, Data: data}
}

func FailedResponse(err error) Response {
	appErr := AsAppError(err)
	return Response{
		Status: StatusFailed,
		Error:  &ErrorBody{Type: appErr.Kind, Message: appErr.Message},
	}
}
