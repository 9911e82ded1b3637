package services

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPNotifier hands verification mail off to a broker instead of dialing
// SMTP inside the request. A downstream mailer consumes account.events.
type AMQPNotifier struct {
	ch *amqp.Channel
}

func NewAMQPNotifier(ch *amqp.Channel) *AMQPNotifier {
	return &AMQPNotifier{ch: ch}
}

type emailVerificationMessage struct {
	Type            string `json:"type"`
	Email           string `json:"email"`
	VerificationURL string `json:"verification_url"`
}

// SendVerification publishes an email verification event to the
// account.events exchange.
func (p *AMQPNotifier) SendVerification(ctx context.Context, recipient, verificationURL string) error {
	msg := emailVerificationMessage{
		Type:            "email_verification",
		Email:           recipient,
		VerificationURL: verificationURL,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return p.ch.PublishWithContext(
		ctx,
		"account.events",     // exchange
		"email.verification", // routing key
		false,                // mandatory
		false,                // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
