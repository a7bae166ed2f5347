package issuer

import (
	"fmt"
	"math/big"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/rtaibah/poap-sub000/models"
)

// BalanceSource reports the live on-chain balance of an address.
type BalanceSource interface {
	GetBalance(address string) (*big.Int, error)
}

// Resolver picks a pool signer for new work. Load is spread by pending count
// first so concurrent requests land on different signers, which keeps nonce
// contention low without a shared lock across the pool.
type Resolver struct {
	store    Store
	balances map[models.Layer]BalanceSource
}

func NewResolver(store Store, balances map[models.Layer]BalanceSource) *Resolver {
	return &Resolver{
		store:    store,
		balances: balances,
	}
}

// Resolve returns the least-loaded standard signer on the layer whose balance
// exceeds minBalance, or nil if none qualifies. Balances and pending counts
// are recomputed on every call; stale load data would defeat the spreading.
func (r *Resolver) Resolve(layer models.Layer, minBalance *big.Int) (*models.Signer, error) {
	signers, err := r.store.ListSignersByRole(layer, models.SignerRoleStandard)
	if err != nil {
		return nil, err
	}

	balanceSource, ok := r.balances[layer]
	if !ok {
		return nil, fmt.Errorf("no balance source for layer %q", layer)
	}

	candidates := make([]models.Signer, 0, len(signers))
	for _, signer := range signers {
		pending, err := r.store.CountPendingTransactions(layer, signer.Address)
		if err != nil {
			return nil, err
		}

		balance, err := balanceSource.GetBalance(signer.Address)
		if err != nil {
			log.Warn("[RESOLVER] Failed to fetch balance for ", signer.Address, ": ", err)
			continue
		}

		signer.PendingCount = pending
		signer.Balance = balance
		candidates = append(candidates, signer)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].PendingCount != candidates[j].PendingCount {
			return candidates[i].PendingCount < candidates[j].PendingCount
		}
		return candidates[i].Balance.Cmp(candidates[j].Balance) > 0
	})

	for i := range candidates {
		if candidates[i].Balance.Cmp(minBalance) > 0 {
			log.Debug("[RESOLVER] Selected signer ", candidates[i].Address,
				" pending ", candidates[i].PendingCount,
				" balance ", candidates[i].Balance)
			return &candidates[i], nil
		}
	}

	log.Warn("[RESOLVER] No signer qualifies on ", layer, " with minimum balance ", minBalance)
	return nil, nil
}
