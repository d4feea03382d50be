package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

var courseAccessTemplate = template.Must(template.New("course_access").Parse(`
<div style="font-family: Arial, sans-serif; color: #1f2937; line-height: 1.5;">
  <h2>Pagamento confirmado 🎉</h2>
  <p>Olá, {{.Name}}!</p>
  <p>Sua compra foi confirmada com sucesso. Agora, defina sua senha para acessar o curso.</p>
  <p>
    <a href="{{.SetPasswordURL}}" style="display:inline-block;padding:10px 16px;background:#1f3c88;color:#fff;text-decoration:none;border-radius:8px;">
      Criar senha
    </a>
  </p>
  <p>Após criar sua senha, faça login por aqui: <a href="{{.LoginURL}}">{{.LoginURL}}</a></p>
  <p>Se você não solicitou esta compra, ignore este e-mail.</p>
</div>
`))

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(`
<div style="font-family: Arial, sans-serif; color: #1f2937; line-height: 1.5;">
  <h2>Redefinição de senha</h2>
  <p>Olá, {{.Name}}!</p>
  <p>Recebemos uma solicitação para alterar sua senha de acesso à área do aluno.</p>
  <p>
    <a href="{{.ResetURL}}" style="display:inline-block;padding:10px 16px;background:#1f3c88;color:#fff;text-decoration:none;border-radius:8px;">
      Definir nova senha
    </a>
  </p>
  <p>Se você não solicitou essa alteração, ignore este e-mail.</p>
</div>
`))

// smtpMailer implements Mailer over SMTP
type smtpMailer struct {
	host     string
	port     int
	username string
	password string
	fromName string
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(host string, port int, username, password, fromName string) Mailer {
	return &smtpMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		fromName: fromName,
	}
}

func (m *smtpMailer) SendCourseAccess(ctx context.Context, email CourseAccessEmail) error {
	body, err := renderTemplate(courseAccessTemplate, email)
	if err != nil {
		return err
	}
	return m.send(ctx, email.To, "Compra confirmada - Acesso ao curso", body)
}

func (m *smtpMailer) SendPasswordReset(ctx context.Context, email PasswordResetEmail) error {
	body, err := renderTemplate(passwordResetTemplate, email)
	if err != nil {
		return err
	}
	return m.send(ctx, email.To, "Redefinir senha - High Performance English", body)
}

func (m *smtpMailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.username, m.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(m.host, m.port, m.username, m.password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	return nil
}

func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return buf.String(), nil
}
