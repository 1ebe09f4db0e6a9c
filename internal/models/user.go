package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Teacher struct {
	ID       string  `json:"id" gorm:"primaryKey;size:255"`
	Email    string  `json:"email" gorm:"uniqueIndex;not null;size:255"`
	FullName *string `json:"full_name" gorm:"size:100"`
	School   *string `json:"school" gorm:"size:200"`

	Settings datatypes.JSON `json:"settings" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Teacher) TableName() string {
	return "teachers"
}
