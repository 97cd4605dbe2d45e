package models

import "time"

type Employee struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;index:idx_employees_name" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
