package dto

// ErrorResponseDTO는 공통 에러 응답 형식을 통일하기 위한 DTO이다.
type ErrorResponseDTO struct {
	Error string `json:"error" example:"not_found"`
}

// MessageResponseDTO는 단순 메시지 응답 형식을 통일하기 위한 DTO이다.
type MessageResponseDTO struct {
	Message string `json:"message" example:"ok"`
}

// HealthDTO 는 /health 응답이다.
type HealthDTO struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"up"`
	Error    string `json:"error,omitempty"`
}

// UploadResponseDTO 는 /uploader 의 JSON 응답이다.
type UploadResponseDTO struct {
	Ref string `json:"ref" example:"1a2b3c4d-photo.png"`
}
