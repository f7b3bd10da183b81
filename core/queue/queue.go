package queue

import (
	"context"
	"time"

	"github.com/RahulGiri5677/nookly-sub000/core/config"
	"github.com/RahulGiri5677/nookly-sub000/core/logger"

	"github.com/hibiken/asynq"
)

// Task type names shared between enqueuers and the worker mux.
const (
	TaskNotificationDeliver = "notification:deliver"
	TaskAttendanceFinalize  = "attendance:finalize"
)

// Client enqueues background tasks. Wrapped so services can be tested with a
// fake enqueuer.
type Client interface {
	Enqueue(ctx context.Context, taskType string, payload []byte) error
	EnqueueAt(ctx context.Context, taskType string, payload []byte, at time.Time) error
	Close() error
}

type asynqClient struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) Client {
	return &asynqClient{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *asynqClient) Enqueue(ctx context.Context, taskType string, payload []byte) error {
	_, err := c.client.EnqueueContext(ctx, asynq.NewTask(taskType, payload))
	return err
}

func (c *asynqClient) EnqueueAt(ctx context.Context, taskType string, payload []byte, at time.Time) error {
	_, err := c.client.EnqueueContext(ctx, asynq.NewTask(taskType, payload), asynq.ProcessAt(at))
	return err
}

func (c *asynqClient) Close() error {
	return c.client.Close()
}

// Worker runs the asynq server with handlers registered by the modules.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewWorker(cfg config.RedisConfig) *Worker {
	server := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		asynq.Config{
			Concurrency: 5,
			Logger:      asynqLogger{},
		},
	)
	return &Worker{server: server, mux: asynq.NewServeMux()}
}

func (w *Worker) Handle(taskType string, handler func(ctx context.Context, payload []byte) error) {
	w.mux.HandleFunc(taskType, func(ctx context.Context, t *asynq.Task) error {
		return handler(ctx, t.Payload())
	})
}

func (w *Worker) Start() error {
	return w.server.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

type asynqLogger struct{}

func (asynqLogger) Debug(args ...interface{}) { logger.Debug("asynq", "args", args) }
func (asynqLogger) Info(args ...interface{})  { logger.Info("asynq", "args", args) }
func (asynqLogger) Warn(args ...interface{})  { logger.Warn("asynq", "args", args) }
func (asynqLogger) Error(args ...interface{}) { logger.Error("asynq", "args", args) }
func (asynqLogger) Fatal(args ...interface{}) { logger.Error("asynq fatal", "args", args) }
