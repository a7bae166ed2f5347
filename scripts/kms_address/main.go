package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/rtaibah/poap-sub000/chain"
)

// Prints the Ethereum address behind a GCP KMS key and signs a probe payload,
// for verifying an admin key before putting it in the config.
func main() {
	keyName := os.Getenv("GCP_KMS_KEY_NAME")

	fmt.Println("Google KMS Key Name: ", keyName)
	if keyName == "" {
		log.Fatalf("GCP KMS Key Name not set")
	}

	wallet, err := chain.NewKMSWallet(keyName)
	if err != nil {
		log.Fatalf("failed to create KMS wallet: %v", err)
	}
	defer wallet.Destroy()

	fmt.Println("Eth Address: ", wallet.Address().Hex())

	probe := crypto.Keccak256Hash([]byte("poap kms probe"))
	signature, err := wallet.SignHash(probe)
	if err != nil {
		log.Fatalf("failed to sign probe payload: %v", err)
	}
	fmt.Printf("Probe Signature: %x\n", signature)
}
