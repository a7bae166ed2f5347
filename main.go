package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/rtaibah/poap-sub000/app"
	"github.com/rtaibah/poap-sub000/issuer"
)

func main() {

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	if len(os.Args) < 2 {
		log.Fatal("Please provide config file as parameter")
	}
	absConfigPath, _ := filepath.Abs(os.Args[1])

	var absEnvPath string
	if len(os.Args) > 2 {
		absEnvPath, _ = filepath.Abs(os.Args[2])
	}

	app.InitConfig(absConfigPath, absEnvPath)
	app.InitLogger()
	app.InitDB()

	pipeline := issuer.BuildPipeline()

	var wg sync.WaitGroup

	healthcheck := app.NewHealthCheck(&wg)
	services := createServices(pipeline, &wg)
	services = append(services, healthcheck)
	healthcheck.SetServices(services)

	wg.Add(len(services))
	for _, service := range services {
		go service.Start()
	}

	// Gracefully shut down server
	gracefulStop := make(chan os.Signal, 1)
	done := make(chan bool, 1)
	signal.Notify(gracefulStop, syscall.SIGINT, syscall.SIGTERM)
	go waitForExitSignals(gracefulStop, done)
	<-done

	log.Debug("[MAIN] Gracefully shutting down server")
	for _, service := range services {
		service.Stop()
	}
	wg.Wait()

	pipeline.Destroy()
	err := app.DB.Disconnect()
	if err != nil {
		log.Error("[MAIN] Error disconnecting from database: ", err)
	}
	log.Info("[MAIN] Server gracefully stopped")
}

func waitForExitSignals(gracefulStop chan os.Signal, done chan bool) {
	sig := <-gracefulStop
	log.Debug("[MAIN] Got signal: ", sig)
	done <- true
}
