package chain

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

const claimPrimaryType = "Claim"

var claimTypes = apitypes.Types{
	"EIP712Domain": {
		{
			Name: "name",
			Type: "string",
		},
		{
			Name: "version",
			Type: "string",
		},
		{
			Name: "chainId",
			Type: "uint256",
		},
		{
			Name: "verifyingContract",
			Type: "address",
		},
	},
	"Claim": {
		{
			Name: "eventId",
			Type: "uint256",
		},
		{
			Name: "recipient",
			Type: "address",
		},
	},
}

// ClaimDomain identifies the contract a delegated-claim signature is bound to.
type ClaimDomain struct {
	ChainID           *big.Int
	VerifyingContract common.Address
}

func claimSigHash(domain ClaimDomain, eventID uint64, recipient common.Address) ([]byte, error) {
	message := apitypes.TypedDataMessage{
		"eventId":   new(big.Int).SetUint64(eventID).String(),
		"recipient": recipient.String(),
	}

	typedData := apitypes.TypedData{
		Types:       claimTypes,
		PrimaryType: claimPrimaryType,
		Domain: apitypes.TypedDataDomain{
			Name:              "POAP",
			Version:           "1",
			ChainId:           math.NewHexOrDecimal256(domain.ChainID.Int64()),
			VerifyingContract: domain.VerifyingContract.String(),
		},
		Message: message,
	}

	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return nil, err
	}

	typedDataHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return nil, err
	}

	rawData := []byte(fmt.Sprintf("\x19\x01%s%s", string(domainSeparator), string(typedDataHash)))
	return crypto.Keccak256(rawData), nil
}

// SignClaim produces the off-chain authorization a third party submits with a
// delegated mint. The returned signature is 0x-prefixed with v in {27, 28}.
func SignClaim(wallet Wallet, domain ClaimDomain, eventID uint64, recipient common.Address) (string, error) {
	sigHash, err := claimSigHash(domain, eventID, recipient)
	if err != nil {
		return "", err
	}

	signature, err := wallet.SignHash(common.BytesToHash(sigHash))
	if err != nil {
		return "", err
	}

	return "0x" + hex.EncodeToString(signature), nil
}

// RecoverClaimSigner returns the address that signed a delegated claim.
func RecoverClaimSigner(signature string, domain ClaimDomain, eventID uint64, recipient common.Address) (common.Address, error) {
	sigBytes, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid claim signature encoding: %w", err)
	}
	if len(sigBytes) != 65 {
		return common.Address{}, fmt.Errorf("invalid claim signature length %d", len(sigBytes))
	}

	sigHash, err := claimSigHash(domain, eventID, recipient)
	if err != nil {
		return common.Address{}, err
	}

	recoverSig := make([]byte, 65)
	copy(recoverSig, sigBytes)
	if recoverSig[64] >= 27 {
		recoverSig[64] -= 27
	}

	pubKey, err := crypto.Ecrecover(sigHash, recoverSig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover claim signer: %w", err)
	}

	pubKeyECDSA, err := crypto.UnmarshalPubkey(pubKey)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to unmarshal claim signer: %w", err)
	}

	return crypto.PubkeyToAddress(*pubKeyECDSA), nil
}

// VerifyClaim checks a delegated-claim signature against the expected signer.
func VerifyClaim(signature string, domain ClaimDomain, eventID uint64, recipient common.Address, expectedSigner common.Address) (bool, error) {
	recovered, err := RecoverClaimSigner(signature, domain, eventID, recipient)
	if err != nil {
		return false, err
	}
	return recovered == expectedSigner, nil
}
