package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const emailQueue = "notifications.email"

// AMQPNotifier publishes email payloads to a durable RabbitMQ queue for an
// external mailer to render and deliver.
type AMQPNotifier struct {
	url         string
	frontendURL string
}

// NewAMQPNotifier creates a notifier publishing to the broker at url.
// Links in message bodies are built against frontendURL.
func NewAMQPNotifier(url, frontendURL string) *AMQPNotifier {
	return &AMQPNotifier{url: url, frontendURL: frontendURL}
}

func (n *AMQPNotifier) Welcome(ctx context.Context, email, name string) {
	n.publish(ctx, EmailMessage{
		To:      email,
		Subject: "Welcome to Clarifyall",
		Body: fmt.Sprintf("Hi %s,\n\nThank you for joining Clarifyall. You can now submit tools, "+
			"save bookmarks, and track your submissions.\n\nStart exploring: %s\n", name, n.frontendURL),
	})
}

func (n *AMQPNotifier) SubmissionReceived(ctx context.Context, email, toolName string) {
	n.publish(ctx, EmailMessage{
		To:      email,
		Subject: "Your tool submission was received",
		Body: fmt.Sprintf("Thanks for submitting %q to Clarifyall. Our team will review it shortly; "+
			"you will hear from us once it goes live.\n", toolName),
	})
}

func (n *AMQPNotifier) ToolApproved(ctx context.Context, email, toolName string) {
	n.publish(ctx, EmailMessage{
		To:      email,
		Subject: "Your tool is now live on Clarifyall",
		Body: fmt.Sprintf("Good news: %q has been approved and is now listed in the directory.\n\n%s\n",
			toolName, n.frontendURL),
	})
}

func (n *AMQPNotifier) PasswordReset(ctx context.Context, email, name, token string) {
	n.publish(ctx, EmailMessage{
		To:      email,
		Subject: "Reset your Clarifyall password",
		Body: fmt.Sprintf("Hi %s,\n\nUse the link below to reset your password. It expires in one hour.\n\n"+
			"%s/reset-password?token=%s\n\nIf you did not request this, ignore this email.\n",
			name, n.frontendURL, token),
	})
}

// publish opens a channel to the broker, declares the durable queue, and
// publishes the message. Any failure is logged and swallowed.
func (n *AMQPNotifier) publish(ctx context.Context, msg EmailMessage) {
	conn, err := amqp.Dial(n.url)
	if err != nil {
		log.Printf("notify: dial broker: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("notify: open channel: %v", err)
		return
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(emailQueue, true, false, false, false, nil); err != nil {
		log.Printf("notify: declare queue: %v", err)
		return
	}

	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("notify: marshal message: %v", err)
		return
	}

	err = ch.PublishWithContext(ctx, "", emailQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		log.Printf("notify: publish: %v", err)
	}
}
