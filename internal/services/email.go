package services

import (
	"fmt"
	"net/smtp"
	"os"

	"go.uber.org/zap"

	"vestisen/internal/logger"
)

// EmailService sends account mails over SMTP. Sending is best effort: callers
// log failures and carry on, registration is never rolled back over a mail.
type EmailService struct {
	SMTPHost    string
	SMTPPort    string
	Email       string
	Password    string
	FrontendURL string
}

func NewEmailService() *EmailService {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	return &EmailService{
		SMTPHost:    host,
		SMTPPort:    port,
		Email:       os.Getenv("EMAIL_ADDRESS"),
		Password:    os.Getenv("EMAIL_APP_PASSWORD"),
		FrontendURL: os.Getenv("FRONTEND_BASE_URL"),
	}
}

func (es *EmailService) send(to, subject, body string) error {
	if es.Email == "" || es.Password == "" {
		return fmt.Errorf("email credentials not configured")
	}
	msg := []byte("From: " + es.Email + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
		body)
	auth := smtp.PlainAuth("", es.Email, es.Password, es.SMTPHost)
	return smtp.SendMail(es.SMTPHost+":"+es.SMTPPort, auth, es.Email, []string{to}, msg)
}

// SendVerificationEmail mails the email-verification link.
func (es *EmailService) SendVerificationEmail(to, token, firstName string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", es.FrontendURL, token)
	body := fmt.Sprintf(`
<html><body>
<h2>Bienvenue sur VestiSen, %s !</h2>
<p>Merci de vous être inscrit. Cliquez sur le lien ci-dessous pour vérifier votre adresse email :</p>
<p><a href="%s">Vérifier mon email</a></p>
<p>Ce lien expire dans <strong>24 heures</strong>.</p>
<p>Si vous n'êtes pas à l'origine de cette inscription, ignorez cet email.</p>
</body></html>`, firstName, link)
	if err := es.send(to, "Vérifiez votre adresse email", body); err != nil {
		logger.Log.Warn("verification email failed", zap.String("to", to), zap.Error(err))
		return err
	}
	return nil
}

// SendPasswordResetEmail mails the password-reset link.
func (es *EmailService) SendPasswordResetEmail(to, token, firstName string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", es.FrontendURL, token)
	body := fmt.Sprintf(`
<html><body>
<h2>Réinitialisation du mot de passe</h2>
<p>Bonjour %s, cliquez sur le lien ci-dessous pour choisir un nouveau mot de passe :</p>
<p><a href="%s">Réinitialiser mon mot de passe</a></p>
<p>Ce lien expire dans <strong>1 heure</strong>.</p>
<p>Si vous n'avez pas demandé cette réinitialisation, ignorez cet email.</p>
</body></html>`, firstName, link)
	if err := es.send(to, "Réinitialisation de votre mot de passe", body); err != nil {
		logger.Log.Warn("password reset email failed", zap.String("to", to), zap.Error(err))
		return err
	}
	return nil
}
