package response

// ErrorResponse API 오류 응답
type ErrorResponse struct {
	// ResultCode HTTP 상태 코드 (예: 404, 503)
	ResultCode int `json:"result_code" example:"404"`

	// Message 에러 메시지
	Message string `json:"message" example:"등록되지 않은 태그입니다 (tag=order)"`
}
