package app

import (
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	log "github.com/sirupsen/logrus"
)

func init() {
	log.SetOutput(io.Discard)
}

type countingRunner struct {
	runs atomic.Int64
}

func (m *countingRunner) Run() {
	m.runs.Add(1)
}

func TestRunnerService(t *testing.T) {
	runner := &countingRunner{}
	interval := 50 * time.Millisecond
	wg := &sync.WaitGroup{}
	service := NewRunnerService("TestService", runner, wg, interval)
	wg.Add(1)

	go service.Start()

	time.Sleep(300 * time.Millisecond)

	service.Stop()
	wg.Wait()

	health := service.Health()
	assert.True(t, health.Healthy)
	assert.Equal(t, "TestService", health.Name)
	assert.False(t, health.LastSyncTime.IsZero())
	assert.True(t, health.NextSyncTime.After(health.LastSyncTime))

	assert.GreaterOrEqual(t, runner.runs.Load(), int64(3))
}

func TestRunnerServiceRunsOnceBeforeSleeping(t *testing.T) {
	runner := &countingRunner{}
	wg := &sync.WaitGroup{}
	service := NewRunnerService("TestService", runner, wg, time.Hour)
	wg.Add(1)

	go service.Start()

	time.Sleep(50 * time.Millisecond)
	service.Stop()
	wg.Wait()

	assert.Equal(t, int64(1), runner.runs.Load())
}
