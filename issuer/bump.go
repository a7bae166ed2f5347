package issuer

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	log "github.com/sirupsen/logrus"

	"github.com/rtaibah/poap-sub000/models"
)

// ErrTransactionNotFound is returned when a bump targets a hash the store has
// no record of. This is a data-integrity error, never retried.
var ErrTransactionNotFound = fmt.Errorf("transaction was not found")

type operationExecutor interface {
	Execute(ctx context.Context, layer models.Layer, op models.Operation, overrides Overrides) (*types.Transaction, error)
}

// Bumper resubmits a stalled transaction with the same signer and nonce at a
// higher gas price, superseding the original record.
type Bumper struct {
	store    Store
	executor operationExecutor
}

func NewBumper(store Store, executor operationExecutor) *Bumper {
	return &Bumper{
		store:    store,
		executor: executor,
	}
}

// Bump re-executes the operation behind hash with gasPrice. When updateTx is
// set the call is a genuine price bump: the new price must exceed the stored
// one and the original record is marked bumped afterwards. Internal retry
// paths pass updateTx false and may reuse the same price.
func (b *Bumper) Bump(ctx context.Context, hash string, gasPrice *big.Int, updateTx bool) (*types.Transaction, error) {
	original, err := b.store.FindTransactionByHash(hash)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, ErrTransactionNotFound
	}

	if updateTx {
		storedPrice, ok := new(big.Int).SetString(original.GasPrice, 10)
		if !ok {
			return nil, fmt.Errorf("transaction %s has invalid stored gas price %q", hash, original.GasPrice)
		}
		if gasPrice.Cmp(storedPrice) <= 0 {
			return nil, fmt.Errorf("gas price %s does not exceed stored price %s", gasPrice, storedPrice)
		}
	}

	op, err := models.ParseOperation(original.Operation, original.Arguments)
	if err != nil {
		return nil, err
	}

	nonce := original.Nonce
	tx, err := b.executor.Execute(ctx, original.Layer, op, Overrides{
		Signer:     original.SignerAddress,
		Nonce:      &nonce,
		GasPrice:   gasPrice,
		OriginalTx: original.Hash,
	})
	if err != nil {
		return nil, err
	}

	newHash := tx.Hash().Hex()
	log.Info("[BUMP] Replaced ", hash, " with ", newHash, " at gas price ", gasPrice)

	// Single mints are what end users track by hash; repoint their claim
	// at the replacement.
	if original.Operation == models.OpMintToken && newHash != hash {
		if err := b.store.UpdateClaimTxHash(hash, newHash); err != nil {
			log.Warn("[BUMP] Failed to repoint claim from ", hash, ": ", err)
		}
	}

	if updateTx {
		if err := b.store.UpdateTransactionStatus(hash, models.TransactionStatusPending, models.TransactionStatusBumped); err != nil {
			log.Warn("[BUMP] Failed to mark ", hash, " bumped: ", err)
		}
	}

	return tx, nil
}
