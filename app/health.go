package app

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/rtaibah/poap-sub000/models"
)

const HealthServiceName = "HEALTH"

// HealthService periodically records every registered service's health in
// the store so operators can watch the daemon from the database.
type HealthService struct {
	wg       *sync.WaitGroup
	stop     chan bool
	interval time.Duration

	servicesMu sync.RWMutex
	services   []models.Service
}

func (b *HealthService) SetServices(services []models.Service) {
	b.servicesMu.Lock()
	defer b.servicesMu.Unlock()
	b.services = services
}

func (b *HealthService) Stop() {
	log.Debug("[HEALTH] Stopping health")
	b.stop <- true
}

func (b *HealthService) PostHealth() bool {
	log.Debug("[HEALTH] Posting health")

	b.servicesMu.RLock()
	services := b.services
	b.servicesMu.RUnlock()

	success := true
	for _, service := range services {
		err := DB.UpsertServiceHealth(service.Health())
		if err != nil {
			log.Error("[HEALTH] Error posting health: ", err)
			success = false
		}
	}
	return success
}

func (b *HealthService) Health() models.ServiceHealth {
	lastSyncTime := time.Now()
	return models.ServiceHealth{
		Name:         HealthServiceName,
		LastSyncTime: lastSyncTime,
		NextSyncTime: lastSyncTime.Add(b.interval),
		Healthy:      true,
	}
}

func (b *HealthService) Start() {
	log.Debug("[HEALTH] Starting health")
	stop := false
	for !stop {
		log.Debug("[HEALTH] Starting health sync")

		b.PostHealth()

		log.Debug("[HEALTH] Finished health sync")
		log.Debug("[HEALTH] Sleeping for ", b.interval)

		select {
		case <-b.stop:
			stop = true
			log.Debug("[HEALTH] Stopped health")
		case <-time.After(b.interval):
		}
	}
	b.wg.Done()
}

func NewHealthCheck(wg *sync.WaitGroup) *HealthService {
	log.Debug("[HEALTH] Initializing health")

	b := &HealthService{
		wg:       wg,
		stop:     make(chan bool),
		interval: time.Duration(Config.Health.IntervalMillis) * time.Millisecond,
	}

	log.Debug("[HEALTH] Initialized health")

	return b
}
