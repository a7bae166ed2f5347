package app

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/rtaibah/poap-sub000/models"
)

// Runner is one unit of recurring work driven by a RunnerService.
type Runner interface {
	Run()
}

type RunnerService struct {
	wg       *sync.WaitGroup
	name     string
	runner   Runner
	interval time.Duration
	stop     chan bool

	healthMu sync.RWMutex
	health   models.ServiceHealth
}

func (x *RunnerService) Start() {
	log.Info("[", x.name, "] Starting service")
	stop := false
	for !stop {
		log.Debug("[", x.name, "] Starting sync")

		x.runner.Run()

		x.UpdateHealth()

		log.Debug("[", x.name, "] Finished sync, Sleeping for ", x.interval)

		select {
		case <-x.stop:
			stop = true
			log.Info("[", x.name, "] Stopped service")
		case <-time.After(x.interval):
		}
	}
	x.wg.Done()
}

func (x *RunnerService) Health() models.ServiceHealth {
	x.healthMu.RLock()
	defer x.healthMu.RUnlock()

	return x.health
}

func (x *RunnerService) UpdateHealth() {
	x.healthMu.Lock()
	defer x.healthMu.Unlock()

	lastSyncTime := time.Now()

	x.health = models.ServiceHealth{
		Name:         x.name,
		LastSyncTime: lastSyncTime,
		NextSyncTime: lastSyncTime.Add(x.interval),
		Healthy:      true,
	}
}

func (x *RunnerService) Stop() {
	log.Debug("[", x.name, "] Stopping service")
	x.stop <- true
}

func NewRunnerService(name string, runner Runner, wg *sync.WaitGroup, interval time.Duration) models.Service {
	x := &RunnerService{
		wg:       wg,
		name:     name,
		runner:   runner,
		interval: interval,
		stop:     make(chan bool),
	}

	x.UpdateHealth()

	return x
}
