package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// TitleJob asks the worker to title a conversation from its first user message.
// ExpectedTitle is the title seen when the turn finished; the worker only
// replaces that one.
type TitleJob struct {
	ConversationID uint64 `json:"conversation_id"`
	UserID         string `json:"user_id"`
	ExpectedTitle  string `json:"expected_title"`
}

func (j TitleJob) Validate() error {
	if j.ConversationID == 0 {
		return fmt.Errorf("title job: missing conversation_id")
	}
	if strings.TrimSpace(j.UserID) == "" {
		return fmt.Errorf("title job: missing user_id")
	}
	if j.ExpectedTitle == "" {
		return fmt.Errorf("title job: missing expected_title")
	}
	return nil
}

// DecodeTitleJob parses a delivery body.
func DecodeTitleJob(body []byte) (TitleJob, error) {
	var j TitleJob
	if err := json.Unmarshal(body, &j); err != nil {
		return TitleJob{}, fmt.Errorf("title job: %w", err)
	}
	if err := j.Validate(); err != nil {
		return TitleJob{}, err
	}
	return j, nil
}

func RetryQueue(queue string) string { return queue + ".retry" }
func DeadQueue(queue string) string { return queue + ".dlq" }

// DeclareQueues declares the main queue with its retry and dead-letter queues.
// Publisher and worker must declare with identical arguments.
func DeclareQueues(ch *amqp.Channel, queue string) error {
	mainQ := queue
	retryQ := RetryQueue(queue)
	dlqQ := DeadQueue(queue)

	// DLQ
	if _, err := ch.QueueDeclare(
		dlqQ,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false,
		nil,
	); err != nil {
		return fmt.Errorf("declare %s: %w", dlqQ, err)
	}

	// Retry queue: message TTL -> dead-letter back to main queue
	if _, err := ch.QueueDeclare(
		retryQ,
		true,
		false,
		false,
		false,
		amqp.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": mainQ,
		},
	); err != nil {
		return fmt.Errorf("declare %s: %w", retryQ, err)
	}

	// Main queue: dead-letter to DLQ on reject/nack(requeue=false)
	if _, err := ch.QueueDeclare(
		mainQ,
		true,
		false,
		false,
		false,
		amqp.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": dlqQ,
		},
	); err != nil {
		return fmt.Errorf("declare %s: %w", mainQ, err)
	}
	return nil
}

type Publisher struct {
	conn  *amqp.Connection
	mu    sync.Mutex // amqp channels are not safe for concurrent publish
	ch    *amqp.Channel
	queue string
}

func NewPublisher(url, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := DeclareQueues(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// PublishTitleJob enqueues a persistent title job on the main queue.
func (p *Publisher) PublishTitleJob(ctx context.Context, conversationID uint64, userID, expectedTitle string) error {
	job := TitleJob{ConversationID: conversationID, UserID: userID, ExpectedTitle: expectedTitle}
	if err := job.Validate(); err != nil {
		return err
	}
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return p.publish(ctx, p.queue, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
		Timestamp:    time.Now(),
	})
}

// Retry re-publishes a failed delivery to the retry queue; it returns to the
// main queue after delay.
func (p *Publisher) Retry(ctx context.Context, body []byte, attempt int, delay time.Duration) error {
	return p.publish(ctx, RetryQueue(p.queue), amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
		Timestamp:    time.Now(),
		Expiration:   fmt.Sprintf("%d", delay.Milliseconds()),
		Headers:      amqp.Table{AttemptHeader: int32(attempt)},
	})
}

// AttemptHeader counts deliveries of a job across retries.
const AttemptHeader = "x-attempt"

// Attempt reads the retry count carried by a delivery.
func Attempt(h amqp.Table) int {
	switch v := h[AttemptHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func (p *Publisher) publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(cctx,
		"",         // default exchange
		routingKey, // routing key = queue
		false,
		false,
		msg,
	)
}
