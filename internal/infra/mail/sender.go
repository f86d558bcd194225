package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

//go:embed templates/*.html
var templatesFS embed.FS

var stageChangedTmpl = template.Must(template.ParseFS(templatesFS, "templates/stage_changed.html"))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	if from == "" {
		from = "nao-responda@liguecrm.com"
	}
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

// SendStageChanged avisa o agente responsável que um prospect mudou de etapa.
func (s *EmailSender) SendStageChanged(to, agentName string, event entity.StageChangedEvent, reg *entity.StageRegistry) error {
	data := StageChangedEmailData{
		AgentName:    agentName,
		BusinessName: event.BusinessName,
		FromLabel:    reg.Label(event.From),
		ToLabel:      reg.Label(event.To),
		MovedAt:      event.MovedAt.Format("02/01/2006 15:04"),
	}

	body, err := renderStageChanged(data)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("%s: %s → %s", data.BusinessName, data.FromLabel, data.ToLabel))
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}

func renderStageChanged(data StageChangedEmailData) (string, error) {
	var body bytes.Buffer
	if err := stageChangedTmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}
