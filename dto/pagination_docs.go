package dto

// PagePostDTO is the home page listing as JSON.
// Prev/Next carry the same links the HTML page renders ("#" when inert).
// swagger:model PagePostDTO
type PagePostDTO struct {
	Data       []PostDTO `json:"data"`
	Page       int       `json:"page" example:"1"`
	PageSize   int       `json:"page_size" example:"3"`
	LastPage   int       `json:"last_page" example:"4"`
	Prev       string    `json:"prev" example:"#"`
	Next       string    `json:"next" example:"/?page=2"`
	OutOfRange bool      `json:"out_of_range"`
}
