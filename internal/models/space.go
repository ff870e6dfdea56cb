package models

import "time"

type Space struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"nombre"`
	Description string    `json:"descripcion"`
	Capacity    int       `gorm:"not null" json:"capacidad"`
	Category    string    `gorm:"not null" json:"tipo"`
	ImageURL    string    `json:"imagen_url"`
	Available   bool      `gorm:"not null;default:true" json:"disponible"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
