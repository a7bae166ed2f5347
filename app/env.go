package app

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func readConfigFromENV(envFile string) {
	if envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil {
			log.Warn("[ENV] Error loading .env file: ", err.Error())
		}
	}

	// postgres
	if os.Getenv("POSTGRES_HOST") != "" {
		Config.Postgres.Host = os.Getenv("POSTGRES_HOST")
	}
	if os.Getenv("POSTGRES_PORT") != "" {
		port, err := strconv.ParseInt(os.Getenv("POSTGRES_PORT"), 10, 64)
		if err != nil {
			log.Warn("[ENV] Error parsing POSTGRES_PORT: ", err.Error())
		} else {
			Config.Postgres.Port = port
		}
	}
	if os.Getenv("POSTGRES_USER") != "" {
		Config.Postgres.User = os.Getenv("POSTGRES_USER")
	}
	if os.Getenv("POSTGRES_PASSWORD") != "" {
		Config.Postgres.Password = os.Getenv("POSTGRES_PASSWORD")
	}
	if os.Getenv("POSTGRES_DATABASE") != "" {
		Config.Postgres.Database = os.Getenv("POSTGRES_DATABASE")
	}

	// primary layer
	if os.Getenv("L1_RPC_URL") != "" {
		Config.PrimaryLayer.RPCURL = os.Getenv("L1_RPC_URL")
	}
	if os.Getenv("L1_CHAIN_ID") != "" {
		Config.PrimaryLayer.ChainID = os.Getenv("L1_CHAIN_ID")
	}
	if os.Getenv("L1_POAP_ADDRESS") != "" {
		Config.PrimaryLayer.PoapAddress = os.Getenv("L1_POAP_ADDRESS")
	}
	if os.Getenv("L1_EXPLORER_API_URL") != "" {
		Config.PrimaryLayer.ExplorerAPIURL = os.Getenv("L1_EXPLORER_API_URL")
	}

	// secondary layer
	if os.Getenv("L2_RPC_URL") != "" {
		Config.SecondaryLayer.RPCURL = os.Getenv("L2_RPC_URL")
	}
	if os.Getenv("L2_CHAIN_ID") != "" {
		Config.SecondaryLayer.ChainID = os.Getenv("L2_CHAIN_ID")
	}
	if os.Getenv("L2_POAP_ADDRESS") != "" {
		Config.SecondaryLayer.PoapAddress = os.Getenv("L2_POAP_ADDRESS")
	}
	if os.Getenv("L2_EXPLORER_API_URL") != "" {
		Config.SecondaryLayer.ExplorerAPIURL = os.Getenv("L2_EXPLORER_API_URL")
	}

	// signers
	if os.Getenv("POOL_MNEMONIC") != "" {
		Config.SignerPool.Mnemonic = os.Getenv("POOL_MNEMONIC")
	}
	if os.Getenv("POOL_SIZE") != "" {
		size, err := strconv.ParseInt(os.Getenv("POOL_SIZE"), 10, 64)
		if err != nil {
			log.Warn("[ENV] Error parsing POOL_SIZE: ", err.Error())
		} else {
			Config.SignerPool.Size = size
		}
	}
	if os.Getenv("POOL_MIN_BALANCE_WEI") != "" {
		Config.SignerPool.MinBalanceWei = os.Getenv("POOL_MIN_BALANCE_WEI")
	}
	if os.Getenv("ADMIN_PRIVATE_KEY") != "" {
		Config.AdminSigner.PrivateKey = os.Getenv("ADMIN_PRIVATE_KEY")
	}
	if os.Getenv("ADMIN_KMS_KEY_NAME") != "" {
		Config.AdminSigner.KMSKeyName = os.Getenv("ADMIN_KMS_KEY_NAME")
	}
}
