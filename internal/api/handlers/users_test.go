package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfwatch/internal/core"
	"shelfwatch/internal/types"
)

func serveUsers(h *UserHandler, r *http.Request) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Route("/v1", func(r chi.Router) {
		h.RegisterRoutes(r)
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestUpdateWhatsApp_Success(t *testing.T) {
	users := &mockUserRepo{users: map[string]*types.User{
		"user-1": {ID: "user-1", Username: "budi", Name: "Budi Gudang"},
	}}
	h := NewUserHandler(users, core.NewValidator(), testLogger())

	body := bytes.NewReader([]byte(`{"whatsapp":"+62 812-3456-7890"}`))
	req := httptest.NewRequest(http.MethodPut, "/v1/users/user-1/whatsapp", body)
	w := serveUsers(h, req)

	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "6281234567890", users.users["user-1"].WhatsApp)

	var resp struct {
		Data UpdateWhatsAppResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "budi", resp.Data.Username)
	assert.Equal(t, "628-1234-567890", resp.Data.WhatsApp)
}

func TestUpdateWhatsApp_MissingBodyField(t *testing.T) {
	h := NewUserHandler(&mockUserRepo{}, core.NewValidator(), testLogger())

	req := httptest.NewRequest(http.MethodPut, "/v1/users/user-1/whatsapp", bytes.NewReader([]byte(`{}`)))
	w := serveUsers(h, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateWhatsApp_TooShort(t *testing.T) {
	users := &mockUserRepo{users: map[string]*types.User{
		"user-1": {ID: "user-1"},
	}}
	h := NewUserHandler(users, core.NewValidator(), testLogger())

	body := bytes.NewReader([]byte(`{"whatsapp":"0812345"}`))
	req := httptest.NewRequest(http.MethodPut, "/v1/users/user-1/whatsapp", body)
	w := serveUsers(h, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), string(types.ErrCodeValidationInvalidWhatsApp))
	assert.Empty(t, users.users["user-1"].WhatsApp)
}

func TestUpdateWhatsApp_UnknownUser(t *testing.T) {
	users := &mockUserRepo{
		updateWhatsAppFn: func(_ context.Context, _ string, _ string) error {
			return types.NewAppError(types.ErrCodeNotFoundUser, "user not found", nil)
		},
	}
	h := NewUserHandler(users, core.NewValidator(), testLogger())

	body := bytes.NewReader([]byte(`{"whatsapp":"6281234567890"}`))
	req := httptest.NewRequest(http.MethodPut, "/v1/users/ghost/whatsapp", body)
	w := serveUsers(h, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFormatWhatsAppDisplay(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"6281234567890", "628-1234-567890"},
		{"08123456789", "081-2345-6789"},
		{"0812345", "0812345"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatWhatsAppDisplay(tt.in), "input %q", tt.in)
	}
}
