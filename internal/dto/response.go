package dto

import (
	"time"

	"espacios-api/internal/models"
)

type MessageResponse struct {
	Message string `json:"mensaje"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	Errors map[string]string `json:"errores"`
}

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *models.User `json:"usuario"`
}

type RegisterResponse struct {
	Message string       `json:"mensaje"`
	User    *models.User `json:"usuario"`
}

type SpaceResponse struct {
	Message string        `json:"mensaje"`
	Space   *models.Space `json:"espacio"`
}

type ReservationResponse struct {
	Message     string              `json:"mensaje"`
	Reservation *models.Reservation `json:"reserva"`
}

// PublicReservation is the reduced view exposed on the public per-space
// listing: no owner identity.
type PublicReservation struct {
	ID        uint                     `json:"id"`
	EventName string                   `json:"nombre_evento"`
	StartsAt  time.Time                `json:"fecha_inicio"`
	EndsAt    time.Time                `json:"fecha_fin"`
	Status    models.ReservationStatus `json:"estado"`
}

func ToPublicReservation(r *models.Reservation) PublicReservation {
	return PublicReservation{
		ID:        r.ID,
		EventName: r.EventName,
		StartsAt:  r.StartsAt,
		EndsAt:    r.EndsAt,
		Status:    r.Status,
	}
}
