package responses

type ResponseDTO struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Debug      interface{} `json:"debug,omitempty"`
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

type ErrorResponseDTO struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message"`
	Code       string         `json:"code"`
	Reason     string         `json:"reason,omitempty"`
	DevMessage string         `json:"devMessage,omitempty"`
	Location   *ErrorLocation `json:"location,omitempty"`
}

type ErrorLocation struct {
	File         string `json:"file"`
	Line         int    `json:"line"`
	FunctionName string `json:"functionName"`
}
