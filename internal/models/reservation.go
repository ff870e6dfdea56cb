package models

import "time"

type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "confirmada"
	StatusCancelled ReservationStatus = "cancelada"
)

type Reservation struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	SpaceID   uint              `gorm:"not null;index" json:"espacio_id"`
	UserID    uint              `gorm:"not null;index" json:"user_id"`
	EventName string            `gorm:"not null" json:"nombre_evento"`
	StartsAt  time.Time         `gorm:"not null" json:"fecha_inicio"`
	EndsAt    time.Time         `gorm:"not null" json:"fecha_fin"`
	Status    ReservationStatus `gorm:"type:varchar(20);not null;default:'confirmada'" json:"estado"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	Space *Space `gorm:"foreignKey:SpaceID" json:"espacio,omitempty"`
}

func (r *Reservation) Active() bool {
	return r.Status != StatusCancelled
}
