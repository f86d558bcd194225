package twilio

// APIError carries Twilio's error object (code, message, more_info, status)
// so the relay can forward it to its caller.
type APIError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

func (e *APIError) Error() string {
	return e.Message
}
