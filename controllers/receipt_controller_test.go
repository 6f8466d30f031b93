package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/pricejoshua/wehavefoodathome-backend/services/receipts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockReceipts struct{ mock.Mock }

func (m *mockReceipts) Parse(ctx context.Context, provider, imageURL, mimeType string) (*receipts.Receipt, string, error) {
	args := m.Called(provider, imageURL, mimeType)
	r, _ := args.Get(0).(*receipts.Receipt)
	return r, args.String(1), args.Error(2)
}

func (m *mockReceipts) Available() []string {
	return m.Called().Get(0).([]string)
}

func (m *mockReceipts) Default() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

type fakeLinker struct{}

func (fakeLinker) URL(ctx context.Context, key string) (string, error) {
	return "https://signed.example/" + key, nil
}

func receiptRouter(svc *mockReceipts) http.Handler {
	rc := NewReceiptController(svc, fakeLinker{})
	r := newRouter(uuid.New())
	r.POST("/receipts/parse", rc.Parse)
	r.GET("/receipts/providers", rc.Providers)
	return r
}

func TestReceiptParseResolvesPath(t *testing.T) {
	svc := &mockReceipts{}
	svc.On("Parse", "", "https://signed.example/receipts/1-abc", "image/jpeg").
		Return(&receipts.Receipt{ID: 7, CurrencyCode: "USD"}, "claude", nil)
	r := receiptRouter(svc)

	w := do(r, http.MethodPost, "/receipts/parse", map[string]any{"path": "receipts/1-abc"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "claude", w.Header().Get(ReceiptProviderHeader))
	assert.Contains(t, w.Body.String(), `"currency_code":"USD"`)
	svc.AssertExpectations(t)
}

func TestReceiptParseErrors(t *testing.T) {
	svc := &mockReceipts{}
	svc.On("Parse", "veryfi", "https://img/1.png", "image/png").
		Return(nil, "", fmt.Errorf("%w: veryfi", receipts.ErrMissingCredentials))
	svc.On("Parse", "", "https://img/1.png", "image/png").Return(nil, "", receipts.ErrNoProvider)
	svc.On("Parse", "groq", "https://img/1.png", "image/png").Return(nil, "", errors.New("API error 500: boom"))
	r := receiptRouter(svc)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/receipts/parse", map[string]any{}).Code)

	body := map[string]any{"image_url": "https://img/1.png", "mime_type": "image/png"}
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodPost, "/receipts/parse", body).Code)

	body["provider"] = "veryfi"
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/receipts/parse", body).Code)

	body["provider"] = "groq"
	assert.Equal(t, http.StatusBadGateway, do(r, http.MethodPost, "/receipts/parse", body).Code)
}

func TestReceiptProviders(t *testing.T) {
	svc := &mockReceipts{}
	svc.On("Available").Return([]string{"claude", "groq"})
	svc.On("Default").Return("claude", nil)

	w := do(receiptRouter(svc), http.MethodGet, "/receipts/providers", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"available":["claude","groq"],"default":"claude"}`, w.Body.String())
}

func TestReceiptProvidersNoneConfigured(t *testing.T) {
	svc := &mockReceipts{}
	svc.On("Available").Return([]string{})
	svc.On("Default").Return("", receipts.ErrNoProvider)

	w := do(receiptRouter(svc), http.MethodGet, "/receipts/providers", nil)
	assert.JSONEq(t, `{"available":[],"default":null}`, w.Body.String())
}

func TestReceiptParseRejectsUnsafeSources(t *testing.T) {
	svc := &mockReceipts{}
	r := receiptRouter(svc)

	for _, body := range []map[string]any{
		{"path": "avatars/1-abc"},
		{"path": "receipts/../config/env"},
		{"image_url": "file:///etc/passwd"},
		{"image_url": "gopher://internal/x"},
		{"image_url": "not a url"},
	} {
		w := do(r, http.MethodPost, "/receipts/parse", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	svc.AssertNotCalled(t, "Parse", mock.Anything, mock.Anything, mock.Anything)
}
