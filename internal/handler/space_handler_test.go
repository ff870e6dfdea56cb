package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"espacios-api/internal/dto"
	"espacios-api/internal/models"
	"espacios-api/internal/repository"
	"espacios-api/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// --- Mock SpaceService ---

type mockSpaceService struct {
	createFn func(ctx context.Context, req *dto.CreateSpaceRequest) (*models.Space, error)
	getFn    func(ctx context.Context, id uint) (*models.Space, error)
	listFn   func(ctx context.Context, filter repository.SpaceFilter) ([]models.Space, error)
	updateFn func(ctx context.Context, id uint, req *dto.UpdateSpaceRequest) (*models.Space, error)
	deleteFn func(ctx context.Context, id uint) error
}

func (m *mockSpaceService) Create(ctx context.Context, req *dto.CreateSpaceRequest) (*models.Space, error) {
	return m.createFn(ctx, req)
}
func (m *mockSpaceService) Get(ctx context.Context, id uint) (*models.Space, error) {
	return m.getFn(ctx, id)
}
func (m *mockSpaceService) List(ctx context.Context, filter repository.SpaceFilter) ([]models.Space, error) {
	return m.listFn(ctx, filter)
}
func (m *mockSpaceService) Update(ctx context.Context, id uint, req *dto.UpdateSpaceRequest) (*models.Space, error) {
	return m.updateFn(ctx, id, req)
}
func (m *mockSpaceService) Delete(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}

// --- Tests ---

func TestListSpaces_Handler_Filters(t *testing.T) {
	var got repository.SpaceFilter
	svc := &mockSpaceService{
		listFn: func(ctx context.Context, filter repository.SpaceFilter) ([]models.Space, error) {
			got = filter
			return []models.Space{}, nil
		},
	}

	c, rec := newReservationContext(t, http.MethodGet, "/espacios?tipo=Auditorio&disponible=true&capacidad_minima=30", "", 0)
	h := NewSpaceHandler(svc)

	assert.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Auditorio", *got.Category)
	assert.True(t, *got.Available)
	assert.Equal(t, 30, *got.MinCapacity)
}

func TestListSpaces_Handler_BadCapacity(t *testing.T) {
	c, _ := newReservationContext(t, http.MethodGet, "/espacios?capacidad_minima=abc", "", 0)
	h := NewSpaceHandler(&mockSpaceService{})

	err := h.List(c)
	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestGetSpace_Handler_NotFound(t *testing.T) {
	svc := &mockSpaceService{
		getFn: func(ctx context.Context, id uint) (*models.Space, error) {
			return nil, service.ErrSpaceNotFound
		},
	}

	c, _ := newReservationContext(t, http.MethodGet, "/espacios/999", "", 0)
	c.SetParamNames("id")
	c.SetParamValues("999")
	h := NewSpaceHandler(svc)

	err := h.Get(c)
	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestCreateSpace_Handler_Success(t *testing.T) {
	svc := &mockSpaceService{
		createFn: func(ctx context.Context, req *dto.CreateSpaceRequest) (*models.Space, error) {
			return &models.Space{ID: 1, Name: req.Name, Capacity: req.Capacity, Category: req.Category, Available: true}, nil
		},
	}

	body := `{"nombre":"Sala A","capacidad":50,"tipo":"Sala de Conferencias"}`
	c, rec := newReservationContext(t, http.MethodPost, "/espacios", body, 7)
	h := NewSpaceHandler(svc)

	assert.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.SpaceResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Espacio creado exitosamente", resp.Message)
	assert.Equal(t, uint(1), resp.Space.ID)
}

func TestCreateSpace_Handler_ValidationErrors(t *testing.T) {
	body := `{"nombre":"","capacidad":0,"tipo":""}`
	c, _ := newReservationContext(t, http.MethodPost, "/espacios", body, 7)
	h := NewSpaceHandler(&mockSpaceService{})

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, he.Code)

	errs, ok := he.Message.(map[string]string)
	assert.True(t, ok)
	assert.Contains(t, errs, "nombre")
	assert.Contains(t, errs, "capacidad")
	assert.Contains(t, errs, "tipo")
}

func TestUpdateSpace_Handler_NotFound(t *testing.T) {
	svc := &mockSpaceService{
		updateFn: func(ctx context.Context, id uint, req *dto.UpdateSpaceRequest) (*models.Space, error) {
			return nil, service.ErrSpaceNotFound
		},
	}

	body := `{"capacidad":80}`
	c, _ := newReservationContext(t, http.MethodPut, "/espacios/999", body, 7)
	c.SetParamNames("id")
	c.SetParamValues("999")
	h := NewSpaceHandler(svc)

	err := h.Update(c)
	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestDeleteSpace_Handler_Success(t *testing.T) {
	svc := &mockSpaceService{
		deleteFn: func(ctx context.Context, id uint) error {
			return nil
		},
	}

	c, rec := newReservationContext(t, http.MethodDelete, "/espacios/1", "", 7)
	c.SetParamNames("id")
	c.SetParamValues("1")
	h := NewSpaceHandler(svc)

	assert.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.MessageResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Espacio eliminado exitosamente", resp.Message)
}
