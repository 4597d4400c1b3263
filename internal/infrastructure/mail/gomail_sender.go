package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/JohanStiven-dev/evidenciastigo/pkg/config"
)

// plantillas HTML por nombre. Cada una recibe el contexto plano que
// armó la política de notificaciones.
var plantillas = map[string]string{
	"activityCreated": `
		<p>Hola {{index . "userName"}},</p>
		<p>Se creó la actividad <b>{{index . "activityCodigos"}}</b> ({{index . "activityAgencia"}}, {{index . "activityCiudad"}})
		programada para el {{index . "activityFecha"}} y quedó pendiente de tu revisión.</p>
		<p><a href="{{index . "activityLink"}}">Ver actividad</a></p>`,
	"activityConfirmed": `
		<p>Hola {{index . "userName"}},</p>
		<p>La actividad <b>{{index . "activityCodigos"}}</b> fue confirmada por el cliente y quedó programada.</p>
		<p><a href="{{index . "activityLink"}}">Ver actividad</a></p>`,
	"activityCorrectionRequired": `
		<p>Hola {{index . "userName"}},</p>
		<p>El cliente devolvió la actividad <b>{{index . "activityCodigos"}}</b> para corrección.</p>
		<p>Motivo: {{index . "motivo"}}</p>
		<p><a href="{{index . "activityLink"}}">Ver actividad</a></p>`,
	"evidenceReadyForReview": `
		<p>Hola {{index . "userName"}},</p>
		<p>Las evidencias de la actividad <b>{{index . "activityCodigos"}}</b> están listas para tu aprobación final.</p>
		<p><a href="{{index . "activityLink"}}">Revisar evidencias</a></p>`,
	"activityFinalized": `
		<p>Hola {{index . "userName"}},</p>
		<p>La actividad <b>{{index . "activityCodigos"}}</b> fue finalizada: todas las evidencias quedaron aprobadas.</p>
		<p><a href="{{index . "activityLink"}}">Ver actividad</a></p>`,
	"evidenceUploaded": `
		<p>Hola {{index . "userName"}},</p>
		<p>El productor cargó una nueva evidencia ({{index . "evidenceType"}}) del ítem <b>{{index . "itemName"}}</b>
		en la actividad <b>{{index . "activityCodigos"}}</b>.</p>
		<p><a href="{{index . "activityLink"}}">Ver evidencias</a></p>`,
	"evidenceRejected": `
		<p>Hola {{index . "userName"}},</p>
		<p>El cliente rechazó una evidencia del ítem <b>{{index . "itemName"}}</b> en la actividad <b>{{index . "activityCodigos"}}</b>.</p>
		<p>Motivo: {{index . "rejectionReason"}}</p>
		<p><a href="{{index . "activityLink"}}">Cargar de nuevo</a></p>`,
}

const plantillaGenerica = `
		<p>Hola {{index . "userName"}},</p>
		<p>Hay novedades en la actividad <b>{{index . "activityCodigos"}}</b>.</p>
		<p><a href="{{index . "activityLink"}}">Ver actividad</a></p>`

// GomailSender envía correos vía SMTP con gomail. Satisface el puerto
// MailSender del despachador de notificaciones.
type GomailSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewGomailSender construye el sender con la configuración SMTP.
func NewGomailSender(cfg config.SMTPConfig) *GomailSender {
	return &GomailSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Send renderiza la plantilla con el contexto y envía el correo.
func (s *GomailSender) Send(to, asunto, plantilla string, contexto map[string]string) error {
	body, err := render(plantilla, contexto)
	if err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", asunto)
	m.SetBody("text/html", body)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("enviar correo a %s: %w", to, err)
	}
	return nil
}

func render(plantilla string, contexto map[string]string) (string, error) {
	src, ok := plantillas[plantilla]
	if !ok {
		src = plantillaGenerica
	}
	t, err := template.New(plantilla).Parse(src)
	if err != nil {
		return "", fmt.Errorf("parsear plantilla %s: %w", plantilla, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, contexto); err != nil {
		return "", fmt.Errorf("renderizar plantilla %s: %w", plantilla, err)
	}
	return buf.String(), nil
}
