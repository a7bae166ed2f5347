package main

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/rtaibah/poap-sub000/app"
	"github.com/rtaibah/poap-sub000/issuer"
	"github.com/rtaibah/poap-sub000/models"
)

const (
	TxMonitorName     = "TX MONITOR"
	TaskProcessorName = "TASK PROCESSOR"
)

func createServices(pipeline *issuer.Pipeline, wg *sync.WaitGroup) []models.Service {
	services := []models.Service{}

	if app.Config.TxMonitor.Enabled {
		interval := time.Duration(app.Config.TxMonitor.IntervalMillis) * time.Millisecond
		services = append(services, app.NewRunnerService(TxMonitorName, pipeline.Monitor, wg, interval))
	} else {
		log.Debug("[MAIN] ", TxMonitorName, " disabled")
		services = append(services, models.NewEmptyService(wg))
	}

	if app.Config.TaskProcessor.Enabled {
		interval := time.Duration(app.Config.TaskProcessor.IntervalMillis) * time.Millisecond
		services = append(services, app.NewRunnerService(TaskProcessorName, pipeline.Tasks, wg, interval))
	} else {
		log.Debug("[MAIN] ", TaskProcessorName, " disabled")
		services = append(services, models.NewEmptyService(wg))
	}

	return services
}
