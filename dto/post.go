package dto

import (
	"time"

	"github.com/hashfx/techblog/models"
	"github.com/hashfx/techblog/pagination"
)

// PostDTO exposes a post to JSON API consumers.
type PostDTO struct {
	Sno      int64     `json:"sno" example:"1"`
	Title    string    `json:"title" example:"Hello"`
	SubTitle string    `json:"sub_title"`
	Slug     string    `json:"slug" example:"hello"`
	Content  string    `json:"content"`
	ImgFile  string    `json:"img_file"`
	Date     time.Time `json:"date"`
}

// NewPostDTO constructs PostDTO from models.Post
func NewPostDTO(p models.Post) PostDTO {
	return PostDTO{
		Sno:      p.Sno,
		Title:    p.Title,
		SubTitle: p.SubTitle,
		Slug:     p.Slug,
		Content:  p.Content,
		ImgFile:  p.ImgFile,
		Date:     p.Date,
	}
}

// NewPagePostDTO flattens a paginator result for the API.
func NewPagePostDTO(page pagination.Page[models.Post], pageSize int) PagePostDTO {
	data := make([]PostDTO, 0, len(page.Posts))
	for _, p := range page.Posts {
		data = append(data, NewPostDTO(p))
	}
	return PagePostDTO{
		Data:       data,
		Page:       page.Number,
		PageSize:   pageSize,
		LastPage:   page.LastPage,
		Prev:       page.Prev,
		Next:       page.Next,
		OutOfRange: page.OutOfRange,
	}
}
