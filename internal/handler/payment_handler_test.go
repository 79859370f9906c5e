package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pagos-go-api/internal/dto"
	"github.com/noah-isme/pagos-go-api/internal/handler"
	"github.com/noah-isme/pagos-go-api/internal/middleware"
	"github.com/noah-isme/pagos-go-api/internal/repository"
	"github.com/noah-isme/pagos-go-api/internal/service"
)

type stubPaymentService struct {
	response   dto.PaymentResponse
	list       []dto.PaymentResponse
	err        error
	lastActor  service.Actor
	lastFilter repository.PaymentFilter
	deletedID  uint
}

func (s *stubPaymentService) List(_ context.Context, filter repository.PaymentFilter) ([]dto.PaymentResponse, error) {
	s.lastFilter = filter
	return s.list, s.err
}

func (s *stubPaymentService) Create(_ context.Context, payload dto.PaymentCreateRequest, tokenActor service.Actor) (dto.PaymentResponse, error) {
	s.lastActor = tokenActor
	if s.err != nil {
		return dto.PaymentResponse{}, s.err
	}
	return s.response, nil
}

func (s *stubPaymentService) Update(_ context.Context, id uint, payload dto.PaymentUpdateRequest, tokenActor service.Actor) (dto.PaymentResponse, error) {
	s.lastActor = tokenActor
	if s.err != nil {
		return dto.PaymentResponse{}, s.err
	}
	return s.response, nil
}

func (s *stubPaymentService) Delete(_ context.Context, id uint, payload dto.PaymentDeleteRequest, tokenActor service.Actor) error {
	s.lastActor = tokenActor
	s.deletedID = id
	return s.err
}

var _ service.PaymentService = (*stubPaymentService)(nil)

func newPaymentApp(svc *stubPaymentService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/payments", func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalUserID, uint(9))
		c.Locals(middleware.LocalUserName, "Admin")
		c.Locals(middleware.LocalRoleID, uint(1))
		return c.Next()
	})
	handler.NewPaymentHandler(svc, zerolog.Nop()).Register(group)
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	var payload envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	resp.Body.Close()
	return payload
}

func TestPaymentHandlerCreate(t *testing.T) {
	svc := &stubPaymentService{response: dto.PaymentResponse{ID: 3, StudentID: 5, ConceptID: 7, Amount: "15000.00", Status: "paid"}}
	app := newPaymentApp(svc)

	body, err := json.Marshal(dto.PaymentCreateRequest{
		StudentID: 5, ConceptID: 7, Amount: "15000", Date: "2025-07-02", Status: "paid",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	payload := decodeEnvelope(t, resp)
	require.True(t, payload.Success)
	require.Equal(t, "payment recorded", payload.Message)

	var data dto.PaymentResponse
	require.NoError(t, json.Unmarshal(payload.Data, &data))
	require.Equal(t, uint(3), data.ID)

	// The verified token identity from locals reaches the service.
	require.Equal(t, uint(9), svc.lastActor.UserID)
	require.Equal(t, "Admin", svc.lastActor.UserName)
}

func TestPaymentHandlerCreateValidationError(t *testing.T) {
	svc := &stubPaymentService{err: service.ErrValidation}
	app := newPaymentApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewReader([]byte(`{"student_id":1,"concept_id":2,"amount":"-5","date":"2025-01-01"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	payload := decodeEnvelope(t, resp)
	require.False(t, payload.Success)
}

func TestPaymentHandlerUpdateNotFound(t *testing.T) {
	svc := &stubPaymentService{err: service.ErrPaymentNotFound}
	app := newPaymentApp(svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/payments/42", bytes.NewReader([]byte(`{"status":"paid"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPaymentHandlerDelete(t *testing.T) {
	svc := &stubPaymentService{}
	app := newPaymentApp(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/payments/7", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(7), svc.deletedID)
	require.Equal(t, uint(9), svc.lastActor.UserID)
}

func TestPaymentHandlerDeleteBadID(t *testing.T) {
	svc := &stubPaymentService{}
	app := newPaymentApp(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/payments/not-a-number", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPaymentHandlerListFilters(t *testing.T) {
	svc := &stubPaymentService{list: []dto.PaymentResponse{{ID: 1}}}
	app := newPaymentApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments?student_id=5&status=paid", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NotNil(t, svc.lastFilter.StudentID)
	require.Equal(t, uint(5), *svc.lastFilter.StudentID)
	require.NotNil(t, svc.lastFilter.Status)
	require.Equal(t, "paid", *svc.lastFilter.Status)
}

func TestPaymentHandlerListBadQuery(t *testing.T) {
	svc := &stubPaymentService{}
	app := newPaymentApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments?student_id=abc", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
