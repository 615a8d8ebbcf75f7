package models

import (
	"time"
)

// Post is a single blog entry.
// Table: posts (MySQL) / Collection: posts (MongoDB)
//
// Slug is the routing key for /post/:slug. Uniqueness is expected but not enforced.
type Post struct {
	Sno      int64     `gorm:"column:sno;primaryKey;autoIncrement" bson:"sno" json:"sno"`
	Title    string    `gorm:"column:title;size:80;not null" bson:"title" json:"title"`
	SubTitle string    `gorm:"column:sub_title;size:120" bson:"sub_title" json:"sub_title"`
	Slug     string    `gorm:"column:slug;size:64;not null;index" bson:"slug" json:"slug"`
	Content  string    `gorm:"column:content;type:text;not null" bson:"content" json:"content"`
	ImgFile  string    `gorm:"column:img_file;size:255" bson:"img_file" json:"img_file"`
	Date     time.Time `gorm:"column:date" bson:"date" json:"date"`
}

func (Post) TableName() string { return "posts" }
