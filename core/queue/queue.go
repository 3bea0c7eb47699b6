package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"scheduling-api/core/config"
	"scheduling-api/core/logger"
)

// Task type names.
const (
	TaskSlotRegeneration = "slot:regeneration"
)

func redisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func NewClient(cfg config.RedisConfig) *asynq.Client {
	return asynq.NewClient(redisOpt(cfg))
}

// NewServer returns the background worker that processes queued tasks.
func NewServer(cfg *config.Config) *asynq.Server {
	return asynq.NewServer(
		redisOpt(cfg.Redis),
		asynq.Config{
			Concurrency: cfg.Scheduler.WorkerConcurrency,
			Logger:      asynqLogger{},
		},
	)
}

// NewScheduler returns the cron-style scheduler that enqueues the periodic
// slot regeneration task.
func NewScheduler(cfg *config.Config) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(redisOpt(cfg.Redis), &asynq.SchedulerOpts{
		Logger: asynqLogger{},
	})

	task := asynq.NewTask(TaskSlotRegeneration, nil)
	entryID, err := scheduler.Register(cfg.Scheduler.RegenerationCron, task,
		asynq.MaxRetry(2),
		asynq.Unique(time.Hour))
	if err != nil {
		return nil, err
	}
	logger.Info("Queue:Scheduler:Registered",
		"task", TaskSlotRegeneration,
		"cron", cfg.Scheduler.RegenerationCron,
		"entry_id", entryID,
	)

	return scheduler, nil
}

// asynqLogger adapts the asynq logging interface onto core/logger.
type asynqLogger struct{}

func (asynqLogger) Debug(args ...any) { logger.Debug("asynq", "args", args) }
func (asynqLogger) Info(args ...any)  { logger.Info("asynq", "args", args) }
func (asynqLogger) Warn(args ...any)  { logger.Warn("asynq", "args", args) }
func (asynqLogger) Error(args ...any) { logger.Error("asynq", "args", args) }
func (asynqLogger) Fatal(args ...any) { logger.Error("asynq:fatal", "args", args) }

var _ asynq.Logger = asynqLogger{}
