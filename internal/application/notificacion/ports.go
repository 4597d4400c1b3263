package notificacion

// MailSender es el colaborador de correo visto desde el worker: un envío
// síncrono que devuelve error en caso de fallo. El timeout del transporte
// cuenta como intento fallido para el presupuesto de reintentos.
type MailSender interface {
	Send(to, asunto, plantilla string, contexto map[string]string) error
}

// Spec es la intención de notificación que produce la política: a quién,
// por qué canal y con qué contenido. No hace I/O.
type Spec struct {
	UserID      string
	Email       string
	ActividadID string
	TipoEvento  string
	Canal       string
	Asunto      string
	Plantilla   string
	Contexto    map[string]string
}
