package dto

// Envelope is the uniform wrapper for scalar success responses
type Envelope struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// ListEnvelope wraps paginated list responses
type ListEnvelope struct {
	Data     any    `json:"data"`
	Total    int64  `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Message  string `json:"message"`
}

// ErrorEnvelope wraps every failed response. Data is always null.
type ErrorEnvelope struct {
	Data      any    `json:"data"`
	Message   string `json:"message"`
	Code      int    `json:"code"`
	ErrorCode string `json:"errorCode"`
	Details   any    `json:"details,omitempty"`
}

// NewEnvelope creates a scalar success envelope
func NewEnvelope(data any) Envelope {
	return Envelope{Data: data, Message: "Success"}
}

// NewListEnvelope creates a paginated success envelope
func NewListEnvelope(data any, total int64, page, pageSize int) ListEnvelope {
	return ListEnvelope{
		Data:     data,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Message:  "Success",
	}
}

// NewErrorEnvelope creates an error envelope for the given error code
func NewErrorEnvelope(errorCode, message string, details any) ErrorEnvelope {
	return ErrorEnvelope{
		Data:      nil,
		Message:   message,
		Code:      HTTPStatus(errorCode),
		ErrorCode: errorCode,
		Details:   details,
	}
}

// ListRequest carries common pagination parameters
type ListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	OrderBy  string `form:"orderBy"`
	OrderDir string `form:"orderDir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
}

// Normalize applies the default page and page size to unset values
func (r *ListRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 || r.PageSize > 100 {
		r.PageSize = 10
	}
}

// IDRequest binds an ID path parameter
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}
