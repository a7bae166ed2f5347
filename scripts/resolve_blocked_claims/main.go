package main

import (
	"context"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/rtaibah/poap-sub000/app"
	"github.com/rtaibah/poap-sub000/issuer"
	"github.com/rtaibah/poap-sub000/models"
)

// Resubmits delegated mints for claims whose off-chain signature exists but
// whose transaction never landed. Safe to run repeatedly: a claim that still
// fails stays blocked and is picked up by the next run.
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
	defer pipeline.Destroy()

	claims, err := app.DB.ListBlockedClaims()
	if err != nil {
		log.Fatal("[RESOLVE] Failed to list blocked claims: ", err)
	}

	log.Info("[RESOLVE] Found ", len(claims), " blocked claims")

	resolved := 0
	for _, claim := range claims {
		op := models.MintDelegatedOp{
			EventID:   claim.EventID,
			TokenID:   claim.TokenID,
			Recipient: claim.Beneficiary,
			Signature: claim.Signature,
		}

		tx, err := pipeline.Executor.Execute(context.Background(), models.LayerSecondary, op, issuer.Overrides{})
		if err != nil {
			log.Warn("[RESOLVE] Claim ", claim.QrHash, " not yet minted, retry on next run: ", err)
			continue
		}

		if err := app.DB.AttachClaimTransaction(claim.QrHash, tx.Hash().Hex()); err != nil {
			log.Error("[RESOLVE] Failed to attach ", tx.Hash().Hex(), " to claim ", claim.QrHash, ": ", err)
			continue
		}

		log.Info("[RESOLVE] Claim ", claim.QrHash, " resolved by ", tx.Hash().Hex())
		resolved++
	}

	log.Info("[RESOLVE] Resolved ", resolved, " of ", len(claims), " blocked claims")

	if err := app.DB.Disconnect(); err != nil {
		log.Error("[RESOLVE] Error disconnecting from database: ", err)
	}
}
