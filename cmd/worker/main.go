package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suPer8Hu/brand-assistant/internal/ai"
	"github.com/suPer8Hu/brand-assistant/internal/chat"
	"github.com/suPer8Hu/brand-assistant/internal/config"
	"github.com/suPer8Hu/brand-assistant/internal/db"
	"github.com/suPer8Hu/brand-assistant/internal/logging"
	"github.com/suPer8Hu/brand-assistant/internal/prompts"
	"github.com/suPer8Hu/brand-assistant/internal/store/rabbitmq"
	"go.uber.org/zap"
)

const (
	maxAttempts = 3
	retryDelay  = 5 * time.Second
)

type titler interface {
	GenerateTitleFor(ctx context.Context, conversationID uint64, userID, expectedTitle string, final bool) (string, error)
}

type retrier interface {
	Retry(ctx context.Context, body []byte, attempt int, delay time.Duration) error
}

type outcome int

const (
	outcomeAck outcome = iota
	outcomeDeadLetter
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	if cfg.RabbitURL == "" {
		logger.Fatal("RABBIT_URL is required for the title worker")
	}

	gdb, err := db.Connect(cfg.DBDriver, cfg.DBDSN, logger)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}

	reg := prompts.Default()
	provider, err := ai.NewDefaultRegistry(cfg).Get(context.Background(), cfg.AIProvider, cfg.AIModel)
	if err != nil {
		logger.Fatal("ai provider init failed", zap.String("provider", cfg.AIProvider), zap.Error(err))
	}
	svc := chat.NewService(chat.NewRepo(gdb), chat.NewGateway(provider, reg), reg, nil)

	// retries are re-published through the same queue topology
	pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitTitleQueue)
	if err != nil {
		logger.Fatal("rabbit publisher init failed", zap.Error(err))
	}
	defer pub.Close()

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		logger.Fatal("rabbit dial failed", zap.Error(err))
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("rabbit channel failed", zap.Error(err))
	}
	defer ch.Close()

	if err := rabbitmq.DeclareQueues(ch, cfg.RabbitTitleQueue); err != nil {
		logger.Fatal("queue declare failed", zap.Error(err))
	}

	// strict concurrency control
	concurrency := cfg.WorkerConcurrency

	if err := ch.Qos(concurrency, 0, false); err != nil {
		logger.Fatal("qos failed", zap.Error(err))
	}

	msgs, err := ch.Consume(cfg.RabbitTitleQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.Fatal("consume failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("worker started",
		zap.String("queue", cfg.RabbitTitleQueue),
		zap.Int("concurrency", concurrency),
	)

	// worker pool
	jobs := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			wlog := logger.With(zap.Int("worker", workerID))
			for d := range jobs {
				jctx := logging.WithLogger(ctx, wlog)
				switch process(jctx, svc, pub, d.Body, rabbitmq.Attempt(d.Headers)) {
				case outcomeAck:
					if err := d.Ack(false); err != nil {
						wlog.Warn("ack failed", zap.Error(err))
					}
				case outcomeDeadLetter:
					_ = d.Nack(false, false)
				}
			}
		}(i)
	}

	// dispatcher
	for {
		select {
		case <-ctx.Done():
			logger.Info("worker shutting down")
			close(jobs)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				logger.Error("delivery channel closed")
				close(jobs)
				wg.Wait()
				return
			}
			jobs <- d
		}
	}
}

// process titles one conversation. Failed jobs, provider outages included, go
// back through the retry queue until maxAttempts. The last attempt stores the
// fallback title on a provider outage; other failures then go to the
// dead-letter queue.
func process(ctx context.Context, svc titler, retry retrier, body []byte, attempt int) outcome {
	jlog := logging.FromContext(ctx)

	job, err := rabbitmq.DecodeTitleJob(body)
	if err != nil {
		jlog.Warn("bad title job", zap.ByteString("body", body), zap.Error(err))
		return outcomeDeadLetter
	}
	jlog = jlog.With(zap.Uint64("conversation_id", job.ConversationID), zap.Int("attempt", attempt))

	final := attempt+1 >= maxAttempts
	start := time.Now()
	title, err := svc.GenerateTitleFor(ctx, job.ConversationID, job.UserID, job.ExpectedTitle, final)
	if err == nil {
		jlog.Info("conversation titled", zap.String("title", title), zap.Duration("cost", time.Since(start)))
		return outcomeAck
	}

	if errors.Is(err, chat.ErrAlreadyTitled) {
		// renamed by the user or titled by an earlier delivery
		jlog.Info("title job skipped", zap.Error(err))
		return outcomeAck
	}

	if errors.Is(err, chat.ErrNotFound) {
		// conversation gone or never got a user message
		jlog.Warn("title job dropped", zap.Error(err))
		return outcomeAck
	}

	if final {
		jlog.Error("title job failed, dead-lettering", zap.Error(err))
		return outcomeDeadLetter
	}
	if rerr := retry.Retry(ctx, body, attempt+1, retryDelay); rerr != nil {
		jlog.Error("title job retry publish failed", zap.Error(rerr), zap.NamedError("cause", err))
		return outcomeDeadLetter
	}
	jlog.Warn("title job failed, retry scheduled", zap.Error(err))
	return outcomeAck
}
