package app

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	log "github.com/sirupsen/logrus"
)

func accessSecretVersion(client *secretmanager.Client, name string) (string, error) {
	req := &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", Config.GoogleSecretManager.ProjectId, name),
	}

	result, err := client.AccessSecretVersion(context.Background(), req)
	if err != nil {
		return "", err
	}

	return string(result.Payload.Data), nil
}

func readSecretsFromGSM() {
	if !Config.GoogleSecretManager.Enabled {
		log.Debug("[GSM] Google Secret Manager is disabled")
		return
	}

	if Config.GoogleSecretManager.ProjectId == "" {
		log.Fatalf("[GSM] ProjectId is empty")
	}

	ctx := context.Background()
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		log.Fatalf("[GSM] Failed to create secretmanager client: %v", err)
	}
	defer client.Close()

	if Config.SignerPool.Mnemonic == "" {
		if Config.GoogleSecretManager.MnemonicSecretName == "" {
			log.Fatalf("[GSM] Signer pool mnemonic secret name is empty")
		}

		log.Debug("[GSM] Reading signer pool mnemonic")
		Config.SignerPool.Mnemonic, err = accessSecretVersion(client, Config.GoogleSecretManager.MnemonicSecretName)
		if err != nil {
			log.Fatalf("[GSM] Failed to access signer pool mnemonic: %v", err)
		}
		log.Info("[GSM] Successfully read signer pool mnemonic")
	}

	if Config.AdminSigner.PrivateKey == "" && Config.AdminSigner.KMSKeyName == "" {
		if Config.GoogleSecretManager.AdminSecretName == "" {
			log.Fatalf("[GSM] Admin signer secret name is empty")
		}

		log.Debug("[GSM] Reading admin signer private key")
		Config.AdminSigner.PrivateKey, err = accessSecretVersion(client, Config.GoogleSecretManager.AdminSecretName)
		if err != nil {
			log.Fatalf("[GSM] Failed to access admin signer private key: %v", err)
		}
		log.Info("[GSM] Successfully read admin signer private key")
	}
}
