package relay

import "encoding/json"

// SendRequest é o corpo de POST /send-whatsapp. To vai só com dígitos.
type SendRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type SendResponse struct {
	Success    bool            `json:"success"`
	MessageSid string          `json:"messageSid,omitempty"`
	Error      json.RawMessage `json:"error,omitempty"`
}
