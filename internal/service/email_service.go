package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	// If fromEmail is empty, create a disabled service
	if fromEmail == "" {
		log.Println("Email service disabled: EMAIL_SENDER not configured")
		return &EmailService{
			enabled: false,
			debug:   debug,
		}, nil
	}

	if debug {
		log.Printf("[DEBUG] Initializing email service: region=%s, from=%s", awsRegion, fromEmail)
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendWelcomeEmail greets a newly registered parent
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): welcome to %s", toEmail)
		return nil
	}

	subject := "Bem-vindo à Universidade de Pais!"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #4a90e2; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Bem-vindo à Universidade de Pais!</h1>
		</div>
		<div class="content">
			<p>Olá %s,</p>
			<p>Sua conta foi criada com sucesso. O curso tem 4 módulos com 32 aulas em vídeo, questionários de revisão e um espaço para suas anotações.</p>
			<p>Comece pela primeira aula e avance no seu ritmo: cada aula concluída libera a próxima.</p>
			<p style="text-align: center;">
				<a href="%s" class="button">Começar agora</a>
			</p>
		</div>
		<div class="footer">
			<p>Este é um email automático da Universidade de Pais. Por favor, não responda.</p>
		</div>
	</div>
</body>
</html>
`, toName, s.appBaseURL)

	textBody := fmt.Sprintf(`Olá %s,

Sua conta foi criada com sucesso. O curso tem 4 módulos com 32 aulas em vídeo, questionários de revisão e um espaço para suas anotações.

Comece pela primeira aula e avance no seu ritmo: cada aula concluída libera a próxima.

Acesse: %s

---
Este é um email automático da Universidade de Pais. Por favor, não responda.
`, toName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendStudyReminderEmail nudges a parent toward their next pending lesson
func (s *EmailService) SendStudyReminderEmail(ctx context.Context, toEmail, toName, moduleTitle, lessonTitle string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): study reminder to %s", toEmail)
		return nil
	}

	subject := "Hora de estudar na Universidade de Pais"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #4a90e2; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Sua próxima aula espera por você</h1>
		</div>
		<div class="content">
			<p>Olá %s,</p>
			<p>Que tal reservar alguns minutos hoje para continuar o curso?</p>
			<p><strong>%s</strong><br>%s</p>
			<p style="text-align: center;">
				<a href="%s" class="button">Continuar estudando</a>
			</p>
		</div>
		<div class="footer">
			<p>Você recebe este lembrete porque ativou os lembretes de estudo. Desative-os nas configurações da sua conta.</p>
		</div>
	</div>
</body>
</html>
`, toName, moduleTitle, lessonTitle, s.appBaseURL)

	textBody := fmt.Sprintf(`Olá %s,

Que tal reservar alguns minutos hoje para continuar o curso?

%s
%s

Continuar estudando: %s

---
Você recebe este lembrete porque ativou os lembretes de estudo. Desative-os nas configurações da sua conta.
`, toName, moduleTitle, lessonTitle, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendContactEmail relays a contact form message to the configured
// sender address
func (s *EmailService) SendContactEmail(ctx context.Context, fromName, fromEmail, message string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): contact message from %s", fromEmail)
		return nil
	}

	subject := fmt.Sprintf("Contato pelo site: %s", fromName)
	textBody := fmt.Sprintf(`Nova mensagem de contato.

Nome: %s
Email: %s

%s
`, fromName, fromEmail, message)
	htmlBody := fmt.Sprintf(`<p><strong>Nova mensagem de contato.</strong></p>
<p>Nome: %s<br>Email: %s</p>
<p style="white-space: pre-line;">%s</p>
`, fromName, fromEmail, message)

	return s.sendEmail(ctx, s.fromEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		log.Printf("[DEBUG] Sending email: from=%s, to=%s, subject=%s", fromAddress, toEmail, subject)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message id: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
