package issuer

import (
	"fmt"
	"math/big"

	log "github.com/sirupsen/logrus"

	"github.com/rtaibah/poap-sub000/models"
)

// Empirical linear gas model for the mint family of contract calls. On-chain
// estimation is unreliable for these methods, hence the 1.5x safety margin.
const (
	GasBaseCost    = 35708
	GasPerItemCost = 136907
)

// DefaultGasPriceWei is the last-resort gas price, 1 gwei.
var DefaultGasPriceWei = big.NewInt(1000000000)

// TxParams is the parameter set the executor hands to the chain client. A nil
// Nonce means the chain client assigns the next account nonce itself.
type TxParams struct {
	GasLimit uint64
	GasPrice *big.Int
	Nonce    *uint64
}

// Overrides pins parts of a submission that are normally derived. The bump
// path uses all of them; API callers only set AwaitTx.
type Overrides struct {
	// Signer pins the submission to one wallet address instead of asking
	// the resolver.
	Signer string
	// Nonce replaces an in-flight transaction when set.
	Nonce *uint64
	// GasPrice takes precedence over every configured price.
	GasPrice *big.Int
	// OriginalTx is the hash of the record being replaced; if the chain
	// returns the same hash back, the duplicate insert is suppressed.
	OriginalTx string
	// AwaitTx blocks the call until the transaction is mined.
	AwaitTx bool
}

// Builder derives gas limit, gas price, and nonce for one submission.
type Builder struct {
	store Store
}

func NewBuilder(store Store) *Builder {
	return &Builder{store: store}
}

// GasLimitForBatch computes ceil((base + n*perItem) * 1.5) for a batch of n
// recipients; single-recipient operations use n = 1.
func GasLimitForBatch(n int) uint64 {
	if n < 1 {
		n = 1
	}
	total := uint64(GasBaseCost) + uint64(n)*uint64(GasPerItemCost)
	return (total*3 + 1) / 2
}

// Build assembles the parameter set for signerAddress on layer. Precedence:
// gas price override > signer's configured price > global setting > default;
// nonce override > one past the signer's last recorded nonce > chain-assigned.
func (b *Builder) Build(layer models.Layer, signerAddress string, batchSize int, overrides Overrides) (TxParams, error) {
	params := TxParams{
		GasLimit: GasLimitForBatch(batchSize),
	}

	gasPrice, err := b.gasPrice(layer, signerAddress, overrides.GasPrice)
	if err != nil {
		return TxParams{}, err
	}
	params.GasPrice = gasPrice

	if overrides.Nonce != nil {
		nonce := *overrides.Nonce
		params.Nonce = &nonce
		return params, nil
	}

	lastNonce, found, err := b.store.LastNonce(layer, signerAddress)
	if err != nil {
		return TxParams{}, err
	}
	if found {
		nonce := lastNonce + 1
		params.Nonce = &nonce
	}

	return params, nil
}

func (b *Builder) gasPrice(layer models.Layer, signerAddress string, override *big.Int) (*big.Int, error) {
	if override != nil {
		return override, nil
	}

	signer, err := b.store.FindSigner(layer, signerAddress)
	if err != nil {
		return nil, err
	}
	if signer != nil && signer.GasPrice != "" {
		price, ok := new(big.Int).SetString(signer.GasPrice, 10)
		if !ok {
			return nil, fmt.Errorf("signer %s has invalid gas price %q", signerAddress, signer.GasPrice)
		}
		return price, nil
	}

	value, found, err := b.store.FindSetting(models.SettingDefaultGasPrice)
	if err != nil {
		return nil, err
	}
	if found {
		price, ok := new(big.Int).SetString(value, 10)
		if !ok {
			log.Warn("[BUILDER] Invalid global gas price setting ", value, ", using default")
			return DefaultGasPriceWei, nil
		}
		return price, nil
	}

	return DefaultGasPriceWei, nil
}
