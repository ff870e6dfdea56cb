package dto

import (
	"net/mail"
	"net/url"
	"time"
)

// Accepted timestamp layouts: RFC3339 and the legacy "Y-m-d H:i:s" format
// the original API clients send.
var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05"}

func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Validate() map[string]string {
	errs := map[string]string{}
	if r.Name == "" || len(r.Name) > 255 {
		errs["name"] = "el nombre es obligatorio (máximo 255 caracteres)"
	}
	if r.Email == "" || len(r.Email) > 255 {
		errs["email"] = "el email es obligatorio (máximo 255 caracteres)"
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		errs["email"] = "el email no es válido"
	}
	if len(r.Password) < 6 {
		errs["password"] = "la contraseña debe tener al menos 6 caracteres"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateSpaceRequest struct {
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Capacity    int    `json:"capacidad"`
	Category    string `json:"tipo"`
	ImageURL    string `json:"imagen_url"`
	Available   *bool  `json:"disponible"`
}

func (r *CreateSpaceRequest) Validate() map[string]string {
	errs := map[string]string{}
	if r.Name == "" || len(r.Name) > 255 {
		errs["nombre"] = "el nombre es obligatorio (máximo 255 caracteres)"
	}
	if r.Capacity < 1 {
		errs["capacidad"] = "la capacidad debe ser un entero mayor o igual a 1"
	}
	if r.Category == "" {
		errs["tipo"] = "el tipo es obligatorio"
	}
	if r.ImageURL != "" && !validURL(r.ImageURL) {
		errs["imagen_url"] = "la imagen_url no es una URL válida"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// UpdateSpaceRequest carries only the fields present in the request body;
// nil means "leave unchanged".
type UpdateSpaceRequest struct {
	Name        *string `json:"nombre"`
	Description *string `json:"descripcion"`
	Capacity    *int    `json:"capacidad"`
	Category    *string `json:"tipo"`
	ImageURL    *string `json:"imagen_url"`
	Available   *bool   `json:"disponible"`
}

func (r *UpdateSpaceRequest) Validate() map[string]string {
	errs := map[string]string{}
	if r.Name != nil && (*r.Name == "" || len(*r.Name) > 255) {
		errs["nombre"] = "el nombre no puede estar vacío (máximo 255 caracteres)"
	}
	if r.Capacity != nil && *r.Capacity < 1 {
		errs["capacidad"] = "la capacidad debe ser un entero mayor o igual a 1"
	}
	if r.Category != nil && *r.Category == "" {
		errs["tipo"] = "el tipo no puede estar vacío"
	}
	if r.ImageURL != nil && *r.ImageURL != "" && !validURL(*r.ImageURL) {
		errs["imagen_url"] = "la imagen_url no es una URL válida"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

type CreateReservationRequest struct {
	SpaceID   uint   `json:"espacio_id"`
	EventName string `json:"nombre_evento"`
	StartsAt  string `json:"fecha_inicio"`
	EndsAt    string `json:"fecha_fin"`
}

// Validate checks the request and returns the parsed interval. The
// inclusive overlap policy itself lives in the repository; here we only
// enforce shape: end strictly after start, start not in the past.
func (r *CreateReservationRequest) Validate(now time.Time) (start, end time.Time, errs map[string]string) {
	errs = map[string]string{}
	if r.SpaceID == 0 {
		errs["espacio_id"] = "el espacio_id es obligatorio"
	}
	if r.EventName == "" || len(r.EventName) > 255 {
		errs["nombre_evento"] = "el nombre_evento es obligatorio (máximo 255 caracteres)"
	}
	var ok bool
	if start, ok = ParseTimestamp(r.StartsAt); !ok {
		errs["fecha_inicio"] = "la fecha_inicio no es una fecha válida"
	} else if !start.After(now) {
		errs["fecha_inicio"] = "la fecha_inicio debe ser posterior al momento actual"
	}
	if end, ok = ParseTimestamp(r.EndsAt); !ok {
		errs["fecha_fin"] = "la fecha_fin no es una fecha válida"
	} else if _, hasErr := errs["fecha_inicio"]; !hasErr && !end.After(start) {
		errs["fecha_fin"] = "la fecha_fin debe ser posterior a la fecha_inicio"
	}
	if len(errs) == 0 {
		return start, end, nil
	}
	return start, end, errs
}

type UpdateReservationRequest struct {
	EventName *string `json:"nombre_evento"`
	StartsAt  *string `json:"fecha_inicio"`
	EndsAt    *string `json:"fecha_fin"`
}

func (r *UpdateReservationRequest) Validate(now time.Time) (start, end *time.Time, errs map[string]string) {
	errs = map[string]string{}
	if r.EventName != nil && (*r.EventName == "" || len(*r.EventName) > 255) {
		errs["nombre_evento"] = "el nombre_evento no puede estar vacío (máximo 255 caracteres)"
	}
	if r.StartsAt != nil {
		t, ok := ParseTimestamp(*r.StartsAt)
		switch {
		case !ok:
			errs["fecha_inicio"] = "la fecha_inicio no es una fecha válida"
		case !t.After(now):
			errs["fecha_inicio"] = "la fecha_inicio debe ser posterior al momento actual"
		default:
			start = &t
		}
	}
	if r.EndsAt != nil {
		t, ok := ParseTimestamp(*r.EndsAt)
		if !ok {
			errs["fecha_fin"] = "la fecha_fin no es una fecha válida"
		} else {
			end = &t
		}
	}
	if start != nil && end != nil && !end.After(*start) {
		errs["fecha_fin"] = "la fecha_fin debe ser posterior a la fecha_inicio"
	}
	if len(errs) == 0 {
		return start, end, nil
	}
	return start, end, errs
}

func validURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
