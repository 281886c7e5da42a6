package main

import (
	"context"
	"net/http"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"loan-ledger/internal/batch"
	"loan-ledger/internal/config"
	"loan-ledger/internal/event"
	"loan-ledger/internal/infrastructure/logging"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	s.calls.Add(1)
	return 0, nil
}

func TestStartServer(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:         0,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  5 * time.Second,
		},
	}
	logger := logging.NewLogger(config.LoggerConfig{})
	router := http.NewServeMux()

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	t.Cleanup(func() { _ = srv.Close() })

	assert.NotNil(t, srv, "Server should not be nil")
	assert.NotNil(t, serverErrors, "Server errors channel should not be nil")
	assert.NotNil(t, shutdownChan, "Shutdown channel should not be nil")
	assert.Equal(t, ":0", srv.Addr)
}

func TestHandleShutdown(t *testing.T) {
	logger := logging.NewLogger(config.LoggerConfig{})
	cronScheduler := cron.New()
	srv := &http.Server{}
	shutdownChan := make(chan os.Signal, 1)
	serverErrors := make(chan error, 1)

	go func() {
		shutdownChan <- syscall.SIGINT
		serverErrors <- nil
	}()

	done := make(chan struct{})
	go func() {
		handleShutdown(srv, cronScheduler, shutdownChan, serverErrors, logger)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("handleShutdown did not return")
	}
}

func TestHandleShutdownOnServerError(t *testing.T) {
	logger := logging.NewLogger(config.LoggerConfig{})
	serverErrors := make(chan error, 1)
	serverErrors <- http.ErrServerClosed

	handleShutdown(&http.Server{}, cron.New(), make(chan os.Signal), serverErrors, logger)
}

func TestStartBatchJobs(t *testing.T) {
	logger := logging.NewLogger(config.LoggerConfig{})
	sweeper := &countingSweeper{}
	job := batch.NewStagingSweepJob(sweeper, time.Hour, logger)

	t.Run("Registers sweep on configured schedule", func(t *testing.T) {
		cfg := &config.Config{Upload: config.UploadConfig{SweepSchedule: "@every 1h"}}

		c := startBatchJobs(cfg, logger, job)
		defer c.Stop()

		entries := c.Entries()
		require.Len(t, entries, 1)
		entries[0].Job.Run()
		assert.Equal(t, int32(1), sweeper.calls.Load())
	})

	t.Run("Falls back to default schedule", func(t *testing.T) {
		c := startBatchJobs(&config.Config{}, logger, job)
		defer c.Stop()

		assert.Len(t, c.Entries(), 1)
	})

	t.Run("Invalid schedule leaves scheduler empty", func(t *testing.T) {
		cfg := &config.Config{Upload: config.UploadConfig{SweepSchedule: "not a schedule"}}

		c := startBatchJobs(cfg, logger, job)
		defer c.Stop()

		assert.Empty(t, c.Entries())
	})
}

func TestInitializePublisherDisabled(t *testing.T) {
	logger := logging.NewLogger(config.LoggerConfig{})

	pub, closeFn := initializePublisher(&config.Config{}, logger)
	defer closeFn()

	assert.IsType(t, &event.NoopPublisher{}, pub)
}

func TestConnectRabbitMQRequiresURL(t *testing.T) {
	logger := logging.NewLogger(config.LoggerConfig{})

	conn, err := connectRabbitMQ("", logger)
	assert.Nil(t, conn)
	assert.Error(t, err)
}
