package response

// IDResponse ID 발급 응답
type IDResponse struct {
	// Tag ID를 발급한 태그
	Tag string `json:"tag" example:"order"`

	// ID 발급된 ID
	ID int64 `json:"id" example:"1024"`
}
