package twilio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	twiliogo "github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

const (
	channelPrefix  = "whatsapp:"
	defaultBaseURL = "https://api.twilio.com"
)

type Client struct {
	accountSID string
	authToken  string
	from       string
	rest       *twiliogo.RestClient
}

// NewClient monta o RestClient do SDK. baseURL diferente do padrão redireciona
// as chamadas (sandbox, testes).
func NewClient(accountSID, authToken, from, baseURL string) *Client {
	httpClient := &http.Client{Timeout: 10 * time.Second}
	if target, ok := overrideTarget(baseURL); ok {
		httpClient.Transport = &baseURLTransport{target: target, next: http.DefaultTransport}
	}

	base := &twclient.Client{
		Credentials: twclient.NewCredentials(accountSID, authToken),
		HTTPClient:  httpClient,
	}
	base.SetAccountSid(accountSID)

	return &Client{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		rest:       twiliogo.NewRestClientWithParams(twiliogo.ClientParams{Client: base}),
	}
}

// SendWhatsApp cria a mensagem e devolve o SID (SMxxxx). O SDK não recebe
// ctx; o timeout do http.Client limita a chamada.
func (c *Client) SendWhatsApp(ctx context.Context, to, body string) (string, error) {
	if c.accountSID == "" || c.authToken == "" {
		log.Println("⚠️ Twilio: ACCOUNT_SID ou AUTH_TOKEN não configurados")
		return "", fmt.Errorf("twilio não configurado")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &api.CreateMessageParams{}
	params.SetFrom(Address(c.from))
	params.SetTo(Address(to))
	params.SetBody(body)

	msg, err := c.rest.Api.CreateMessage(params)
	if err != nil {
		var restErr *twclient.TwilioRestError
		if errors.As(err, &restErr) {
			log.Printf("❌ Twilio: %d %s", restErr.Code, restErr.Message)
			return "", toAPIError(restErr)
		}
		return "", fmt.Errorf("erro request twilio: %w", err)
	}

	sid := deref(msg.Sid)
	if sid == "" {
		return "", fmt.Errorf("twilio: resposta sem sid")
	}

	log.Printf("✅ Twilio: Mensagem %s (%s) para %s", sid, deref(msg.Status), Address(to))
	return sid, nil
}

// Address monta o endereço do canal: "whatsapp:+<E.164>".
func Address(number string) string {
	number = strings.TrimPrefix(strings.TrimSpace(number), channelPrefix)
	if !strings.HasPrefix(number, "+") {
		number = "+" + number
	}
	return channelPrefix + number
}

func toAPIError(e *twclient.TwilioRestError) *APIError {
	apiErr := &APIError{Code: e.Code, Message: e.Message, MoreInfo: e.MoreInfo, Status: e.Status}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("twilio status %d", e.Status)
	}
	return apiErr
}

func overrideTarget(baseURL string) (*url.URL, bool) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" || baseURL == defaultBaseURL {
		return nil, false
	}
	target, err := url.Parse(baseURL)
	if err != nil || target.Host == "" {
		log.Printf("⚠️ Twilio: TWILIO_BASE_URL inválida (%q), usando %s", baseURL, defaultBaseURL)
		return nil, false
	}
	return target, true
}

// baseURLTransport troca scheme e host das URLs montadas pelo SDK.
type baseURLTransport struct {
	target *url.URL
	next   http.RoundTripper
}

func (t *baseURLTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.URL.Scheme = t.target.Scheme
	r.URL.Host = t.target.Host
	r.Host = t.target.Host
	return t.next.RoundTrip(r)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
