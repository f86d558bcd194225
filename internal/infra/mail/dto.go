package mail

import "gopkg.in/gomail.v2"

type StageChangedEmailData struct {
	AgentName    string
	BusinessName string
	FromLabel    string
	ToLabel      string
	MovedAt      string
}

// dialer é satisfeito por *gomail.Dialer.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string

	dialer dialer
}
