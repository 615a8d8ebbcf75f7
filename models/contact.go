package models

import "time"

// Contact is a message left through the contact form.
type Contact struct {
	Sno      int64     `gorm:"column:sno;primaryKey;autoIncrement" bson:"sno" json:"sno"`
	Name     string    `gorm:"column:name;size:80;not null" bson:"name" json:"name"`
	Email    string    `gorm:"column:email;size:120;not null" bson:"email" json:"email"`
	PhoneNum string    `gorm:"column:phone_num;size:20;not null" bson:"phone_num" json:"phone_num"`
	Msg      string    `gorm:"column:msg;type:text;not null" bson:"msg" json:"msg"`
	Date     time.Time `gorm:"column:date" bson:"date" json:"date"`
}

func (Contact) TableName() string { return "contacts" }
