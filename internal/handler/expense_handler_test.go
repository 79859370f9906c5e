package handler_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pagos-go-api/internal/dto"
	"github.com/noah-isme/pagos-go-api/internal/handler"
	"github.com/noah-isme/pagos-go-api/internal/service"
)

type stubExpenseService struct {
	response   dto.ExpenseResponse
	err        error
	lastCreate dto.ExpenseCreateRequest
	lastActor  service.Actor
	deletedID  uint
}

func (s *stubExpenseService) List(_ context.Context) ([]dto.ExpenseResponse, error) {
	return nil, s.err
}

func (s *stubExpenseService) Create(_ context.Context, payload dto.ExpenseCreateRequest, _ *multipart.FileHeader, tokenActor service.Actor) (dto.ExpenseResponse, error) {
	s.lastCreate = payload
	s.lastActor = tokenActor
	if s.err != nil {
		return dto.ExpenseResponse{}, s.err
	}
	return s.response, nil
}

func (s *stubExpenseService) Delete(_ context.Context, id uint, payload dto.ExpenseDeleteRequest, tokenActor service.Actor) error {
	s.deletedID = id
	s.lastActor = tokenActor
	return s.err
}

var _ service.ExpenseService = (*stubExpenseService)(nil)

func newExpenseApp(svc *stubExpenseService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/expenses")
	handler.NewExpenseHandler(svc, zerolog.Nop()).Register(group)
	return app
}

func TestExpenseHandlerCreateParsesFormActor(t *testing.T) {
	svc := &stubExpenseService{response: dto.ExpenseResponse{ID: 1, Amount: "900.00"}}
	app := newExpenseApp(svc)

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	require.NoError(t, form.WriteField("description", "Window repair"))
	require.NoError(t, form.WriteField("amount", "900"))
	require.NoError(t, form.WriteField("date", "2025-06-01"))
	require.NoError(t, form.WriteField("actor_user_id", "4"))
	require.NoError(t, form.WriteField("actor_user_name", "Secretary"))
	require.NoError(t, form.WriteField("actor_role_id", "2"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/expenses", body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.Equal(t, "Window repair", svc.lastCreate.Description)
	require.Equal(t, uint(4), svc.lastCreate.Actor.UserID)
	require.Equal(t, "Secretary", svc.lastCreate.Actor.UserName)
	require.Equal(t, uint(2), svc.lastCreate.Actor.RoleID)
}

func TestExpenseHandlerDeleteForbidden(t *testing.T) {
	svc := &stubExpenseService{err: service.ErrForbidden}
	app := newExpenseApp(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/expenses/3", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}
