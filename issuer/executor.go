package issuer

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	log "github.com/sirupsen/logrus"

	"github.com/rtaibah/poap-sub000/chain"
	"github.com/rtaibah/poap-sub000/models"
)

// argumentsPlaceholder replaces an argument payload the store refused, so the
// transaction row still exists for the monitor and the bump path.
const argumentsPlaceholder = "invalid-arguments"

// ChainLayer bundles everything the executor needs to issue transactions on
// one chain environment.
type ChainLayer struct {
	ChainID  *big.Int
	Client   chain.Client
	Contract chain.PoapContract
	Receipts chain.ReceiptSource
	Admin    chain.Wallet
	// Wallets maps checksummed address to wallet for the pool plus admin.
	Wallets map[string]chain.Wallet
	// MinBalance is the minimum balance a pool signer must hold.
	MinBalance *big.Int
}

// Executor invokes contract operations and persists the resulting transaction
// records. Nonce allocation and submission are atomic per signer: a mutex
// keyed by layer and address covers the read-build-submit-insert window.
type Executor struct {
	store    Store
	resolver *Resolver
	builder  *Builder
	layers   map[models.Layer]*ChainLayer

	mu          sync.Mutex
	signerLocks map[string]*sync.Mutex
}

func NewExecutor(store Store, resolver *Resolver, builder *Builder, layers map[models.Layer]*ChainLayer) *Executor {
	return &Executor{
		store:       store,
		resolver:    resolver,
		builder:     builder,
		layers:      layers,
		signerLocks: make(map[string]*sync.Mutex),
	}
}

// adminOnly reports whether the operation must run on the administrator
// wallet instead of the helper pool.
func adminOnly(kind models.OperationKind) bool {
	return kind == models.OpMintEventToManyUsers || kind == models.OpBurnToken
}

func batchSize(op models.Operation) int {
	switch o := op.(type) {
	case models.MintEventToManyUsersOp:
		return len(o.Recipients)
	case models.MintUserToManyEventsOp:
		return len(o.EventIDs)
	default:
		return 1
	}
}

func (x *Executor) signerLock(layer models.Layer, address string) *sync.Mutex {
	x.mu.Lock()
	defer x.mu.Unlock()

	key := string(layer) + "/" + address
	lock, ok := x.signerLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		x.signerLocks[key] = lock
	}
	return lock
}

// Execute runs one operation on the layer and records it as pending. A nil
// transaction with a non-nil error means the operation did not reach the
// chain; callers treat that as "not yet done, retry later".
func (x *Executor) Execute(ctx context.Context, layer models.Layer, op models.Operation, overrides Overrides) (*types.Transaction, error) {
	chainLayer, ok := x.layers[layer]
	if !ok {
		return nil, fmt.Errorf("unknown chain layer %q", layer)
	}

	signerAddress, wallet, err := x.resolveWallet(layer, chainLayer, op.Kind(), overrides)
	if err != nil {
		return nil, err
	}

	tx, err := x.submit(ctx, layer, chainLayer, signerAddress, wallet, op, overrides)
	if err != nil {
		return nil, err
	}

	if overrides.AwaitTx {
		hash := tx.Hash().Hex()
		receipt, err := chainLayer.Client.WaitForReceipt(ctx, hash)
		if err != nil {
			return tx, err
		}
		if receipt.Status != types.ReceiptStatusSuccessful {
			return tx, fmt.Errorf("transaction %s reverted", hash)
		}
	}

	return tx, nil
}

// submit covers the nonce-sensitive window. Building parameters, invoking the
// contract, and persisting the pending row happen under the signer's mutex so
// concurrent callers get contiguous nonces. The receipt wait in Execute stays
// outside the mutex: once the row is persisted the next caller reads the
// correct nonce from the store, and a stalled chain must not block the
// signer's subsequent submissions.
func (x *Executor) submit(ctx context.Context, layer models.Layer, chainLayer *ChainLayer, signerAddress string, wallet chain.Wallet, op models.Operation, overrides Overrides) (*types.Transaction, error) {
	lock := x.signerLock(layer, signerAddress)
	lock.Lock()
	defer lock.Unlock()

	params, err := x.builder.Build(layer, signerAddress, batchSize(op), overrides)
	if err != nil {
		return nil, err
	}

	opts, err := wallet.TransactOpts(chainLayer.ChainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	opts.GasLimit = params.GasLimit
	opts.GasPrice = params.GasPrice
	if params.Nonce != nil {
		opts.Nonce = new(big.Int).SetUint64(*params.Nonce)
	}

	tx, err := invokeContract(chainLayer.Contract, op, opts)
	if err != nil {
		log.Error("[EXECUTOR] Failed to submit ", op.Kind(), " on ", layer, ": ", err)
		return nil, err
	}

	hash := tx.Hash().Hex()
	log.Info("[EXECUTOR] Submitted ", op.Kind(), " on ", layer, " as ", hash, " nonce ", tx.Nonce())

	if overrides.OriginalTx == "" || overrides.OriginalTx != hash {
		x.recordTransaction(layer, signerAddress, op, tx, params.GasPrice)
	}

	return tx, nil
}

func (x *Executor) resolveWallet(layer models.Layer, chainLayer *ChainLayer, kind models.OperationKind, overrides Overrides) (string, chain.Wallet, error) {
	if overrides.Signer != "" {
		address := common.HexToAddress(overrides.Signer).Hex()
		wallet, ok := chainLayer.Wallets[address]
		if !ok {
			return "", nil, fmt.Errorf("no wallet for signer %s on %s", address, layer)
		}
		return address, wallet, nil
	}

	if adminOnly(kind) {
		return chainLayer.Admin.Address().Hex(), chainLayer.Admin, nil
	}

	signer, err := x.resolver.Resolve(layer, chainLayer.MinBalance)
	if err != nil {
		log.Warn("[EXECUTOR] Signer resolution failed on ", layer, ": ", err)
	}
	if signer == nil {
		log.Debug("[EXECUTOR] Falling back to administrator wallet on ", layer)
		return chainLayer.Admin.Address().Hex(), chainLayer.Admin, nil
	}

	wallet, ok := chainLayer.Wallets[signer.Address]
	if !ok {
		return "", nil, fmt.Errorf("no wallet for signer %s on %s", signer.Address, layer)
	}
	return signer.Address, wallet, nil
}

func invokeContract(contract chain.PoapContract, op models.Operation, opts *bind.TransactOpts) (*types.Transaction, error) {
	switch o := op.(type) {
	case models.MintTokenOp:
		return contract.MintToken(opts, new(big.Int).SetUint64(o.EventID), common.HexToAddress(o.Recipient))
	case models.MintEventToManyUsersOp:
		recipients := make([]common.Address, len(o.Recipients))
		for i, r := range o.Recipients {
			recipients[i] = common.HexToAddress(r)
		}
		return contract.MintEventToManyUsers(opts, new(big.Int).SetUint64(o.EventID), recipients)
	case models.MintUserToManyEventsOp:
		eventIDs := make([]*big.Int, len(o.EventIDs))
		for i, id := range o.EventIDs {
			eventIDs[i] = new(big.Int).SetUint64(id)
		}
		return contract.MintUserToManyEvents(opts, eventIDs, common.HexToAddress(o.Recipient))
	case models.MintDelegatedOp:
		return contract.MintDelegated(opts, new(big.Int).SetUint64(o.EventID), new(big.Int).SetUint64(o.TokenID), common.HexToAddress(o.Recipient), common.FromHex(o.Signature))
	case models.BurnTokenOp:
		return contract.BurnToken(opts, new(big.Int).SetUint64(o.TokenID))
	case models.VoteOp:
		return contract.Vote(opts, new(big.Int).SetUint64(o.ProposalID))
	default:
		return nil, fmt.Errorf("unsupported operation kind %q", op.Kind())
	}
}

func (x *Executor) recordTransaction(layer models.Layer, signerAddress string, op models.Operation, tx *types.Transaction, gasPrice *big.Int) {
	args, err := op.MarshalArgs()
	if err != nil {
		log.Warn("[EXECUTOR] Failed to serialize arguments for ", tx.Hash().Hex(), ": ", err)
		args = argumentsPlaceholder
	}
	if len(args) > models.MaxArgumentsLength {
		args = args[:models.MaxArgumentsLength]
	}

	record := &models.ServerTransaction{
		Hash:          tx.Hash().Hex(),
		Nonce:         tx.Nonce(),
		SignerAddress: signerAddress,
		Layer:         layer,
		Operation:     op.Kind(),
		Arguments:     args,
		Status:        models.TransactionStatusPending,
		GasPrice:      gasPrice.String(),
	}

	if err := x.store.InsertTransaction(record); err != nil {
		log.Warn("[EXECUTOR] Failed to insert transaction ", record.Hash, ", retrying with placeholder: ", err)
		record.Arguments = argumentsPlaceholder
		if err := x.store.InsertTransaction(record); err != nil {
			log.Error("[EXECUTOR] Failed to insert transaction ", record.Hash, ": ", err)
		}
	}
}
