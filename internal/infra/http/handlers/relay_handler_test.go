package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/infra/integration/relay"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/twilio"
)

type MockWhatsAppSender struct {
	mock.Mock
}

func (m *MockWhatsAppSender) SendWhatsApp(ctx context.Context, to, body string) (string, error) {
	args := m.Called(ctx, to, body)
	return args.String(0), args.Error(1)
}

func TestRelayHandlerSuccess(t *testing.T) {
	sender := new(MockWhatsAppSender)
	sender.On("SendWhatsApp", mock.Anything, "5215512345678", "hola").Return("SM77", nil)
	h := NewRelayHandler(sender)

	w := httptest.NewRecorder()
	h.Handle(w, jsonRequest(t, "POST", "/send-whatsapp", relay.SendRequest{To: "52 1 55 1234 5678", Message: "hola"}))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[relay.SendResponse](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "SM77", resp.MessageSid)
	sender.AssertExpectations(t)
}

func TestRelayHandlerTwilioError(t *testing.T) {
	sender := new(MockWhatsAppSender)
	sender.On("SendWhatsApp", mock.Anything, mock.Anything, mock.Anything).
		Return("", &twilio.APIError{Code: 63016, Message: "outside the allowed window", Status: 400})
	h := NewRelayHandler(sender)

	w := httptest.NewRecorder()
	h.Handle(w, jsonRequest(t, "POST", "/send-whatsapp", relay.SendRequest{To: "5215512345678", Message: "hola"}))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode[relay.SendResponse](t, w)
	assert.False(t, resp.Success)

	var apiErr twilio.APIError
	require.NoError(t, json.Unmarshal(resp.Error, &apiErr))
	assert.Equal(t, 63016, apiErr.Code)
}

func TestRelayHandlerPlainError(t *testing.T) {
	sender := new(MockWhatsAppSender)
	sender.On("SendWhatsApp", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("twilio não configurado"))
	h := NewRelayHandler(sender)

	w := httptest.NewRecorder()
	h.Handle(w, jsonRequest(t, "POST", "/send-whatsapp", relay.SendRequest{To: "1234", Message: "x"}))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"twilio não configurado"}`, w.Body.String())
}

func TestRelayHandlerBadRequestUsesFailureShape(t *testing.T) {
	sender := new(MockWhatsAppSender)
	h := NewRelayHandler(sender)

	w := httptest.NewRecorder()
	h.Handle(w, jsonRequest(t, "POST", "/send-whatsapp", relay.SendRequest{To: "", Message: "x"}))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"to and message are required"}`, w.Body.String())

	w = httptest.NewRecorder()
	h.Handle(w, jsonRequest(t, "POST", "/send-whatsapp", relay.SendRequest{To: "5511999998888", Message: "  "}))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest("POST", "/send-whatsapp", strings.NewReader("nope")))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, decode[relay.SendResponse](t, w).Success)

	sender.AssertNotCalled(t, "SendWhatsApp", mock.Anything, mock.Anything, mock.Anything)
}

// O cliente do relay entende as respostas do próprio handler
func TestRelayClientAgainstHandler(t *testing.T) {
	sender := new(MockWhatsAppSender)
	sender.On("SendWhatsApp", mock.Anything, "5511999998888", "oi").Return("SM1", nil).Once()
	sender.On("SendWhatsApp", mock.Anything, "5511999998888", "falha").
		Return("", &twilio.APIError{Code: 21211, Message: "invalid number"}).Once()

	srv := httptest.NewServer(http.HandlerFunc(NewRelayHandler(sender).Handle))
	defer srv.Close()

	client := relay.NewClient(srv.URL)

	sid, err := client.SendText(context.Background(), outbound("5511999998888", "oi"))
	require.NoError(t, err)
	assert.Equal(t, "SM1", sid)

	_, err = client.SendText(context.Background(), outbound("5511999998888", "falha"))
	assert.ErrorContains(t, err, "invalid number")
}

// Relay completo: handler + cliente twilio-go contra uma API Twilio falsa
func TestRelayHandlerForwardsTwilioErrorObject(t *testing.T) {
	twilioAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		if r.PostForm.Get("Body") == "ok" {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"sid":"SM42","status":"queued"}`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":63016,"message":"outside the allowed window","more_info":"https://www.twilio.com/docs/errors/63016","status":400}`))
	}))
	defer twilioAPI.Close()

	h := NewRelayHandler(twilio.NewClient("AC123", "secret", "+14155238886", twilioAPI.URL))

	w := httptest.NewRecorder()
	h.Handle(w, jsonRequest(t, "POST", "/send-whatsapp", relay.SendRequest{To: "5215512345678", Message: "ok"}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SM42", decode[relay.SendResponse](t, w).MessageSid)

	w = httptest.NewRecorder()
	h.Handle(w, jsonRequest(t, "POST", "/send-whatsapp", relay.SendRequest{To: "5215512345678", Message: "late"}))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":63016,"message":"outside the allowed window","more_info":"https://www.twilio.com/docs/errors/63016","status":400}}`, w.Body.String())
}
