package app

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/rtaibah/poap-sub000/models"
	"gopkg.in/yaml.v2"
)

var (
	Config models.Config
)

func InitConfig(configFile string, envFile string) {
	yamlFile, err := os.ReadFile(configFile)
	if err != nil {
		log.Fatalf("[CONFIG] Error reading config file %q: %s", configFile, err.Error())
	}
	err = yaml.Unmarshal(yamlFile, &Config)
	if err != nil {
		log.Fatalf("[CONFIG] Error unmarshalling config file %q: %s", configFile, err.Error())
	}
	readConfigFromENV(envFile)
	readSecretsFromGSM()
	validateConfig()
}

func validateConfig() {
	if Config.Postgres.Host == "" {
		log.Fatal("[CONFIG] Postgres.Host is required")
	}
	if Config.Postgres.Database == "" {
		log.Fatal("[CONFIG] Postgres.Database is required")
	}
	if Config.PrimaryLayer.RPCURL == "" {
		log.Fatal("[CONFIG] PrimaryLayer.RPCURL is required")
	}
	if Config.PrimaryLayer.ChainID == "" {
		log.Fatal("[CONFIG] PrimaryLayer.ChainID is required")
	}
	if Config.PrimaryLayer.PoapAddress == "" {
		log.Fatal("[CONFIG] PrimaryLayer.PoapAddress is required")
	}
	if Config.SecondaryLayer.RPCURL == "" {
		log.Fatal("[CONFIG] SecondaryLayer.RPCURL is required")
	}
	if Config.SecondaryLayer.ChainID == "" {
		log.Fatal("[CONFIG] SecondaryLayer.ChainID is required")
	}
	if Config.SecondaryLayer.PoapAddress == "" {
		log.Fatal("[CONFIG] SecondaryLayer.PoapAddress is required")
	}
	if Config.SignerPool.Mnemonic == "" {
		log.Fatal("[CONFIG] SignerPool.Mnemonic is required")
	}
	if Config.SignerPool.Size <= 0 {
		log.Fatal("[CONFIG] SignerPool.Size is required")
	}
	if Config.AdminSigner.PrivateKey == "" && Config.AdminSigner.KMSKeyName == "" {
		log.Fatal("[CONFIG] One of AdminSigner.PrivateKey or AdminSigner.KMSKeyName is required")
	}
	for _, layer := range []models.ChainConfig{Config.PrimaryLayer, Config.SecondaryLayer} {
		if layer.ReceiptSource == "explorer" && layer.ExplorerAPIURL == "" {
			log.Fatal("[CONFIG] ExplorerAPIURL is required when ReceiptSource is explorer")
		}
	}
}
