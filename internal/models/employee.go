// internal/models/employee.go
package models

import "time"

type Employee struct {
	BaseModel
	Name    string    `json:"name" gorm:"size:255;not null"`
	Email   string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Title   string    `json:"title" gorm:"size:100"`
	HiredAt time.Time `json:"hired_at"`
}
