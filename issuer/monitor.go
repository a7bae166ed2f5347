package issuer

import (
	"github.com/ethereum/go-ethereum/core/types"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rtaibah/poap-sub000/chain"
	"github.com/rtaibah/poap-sub000/models"
)

// Monitor sweeps pending transactions and flips them to a terminal status
// once a receipt shows up. One stuck or failing lookup never blocks the rest
// of the sweep; the row stays pending and is retried next cycle.
type Monitor struct {
	store       Store
	receipts    map[models.Layer]chain.ReceiptSource
	concurrency int
}

func NewMonitor(store Store, receipts map[models.Layer]chain.ReceiptSource, concurrency int) *Monitor {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Monitor{
		store:       store,
		receipts:    receipts,
		concurrency: concurrency,
	}
}

func (m *Monitor) Run() {
	txs, err := m.store.ListPendingTransactions()
	if err != nil {
		log.Error("[MONITOR] Failed to list pending transactions: ", err)
		return
	}

	if len(txs) == 0 {
		return
	}

	log.Debug("[MONITOR] Sweeping ", len(txs), " pending transactions")

	var group errgroup.Group
	group.SetLimit(m.concurrency)
	for i := range txs {
		tx := txs[i]
		group.Go(func() error {
			m.checkTransaction(tx)
			return nil
		})
	}
	_ = group.Wait()
}

func (m *Monitor) checkTransaction(tx models.ServerTransaction) {
	source, ok := m.receipts[tx.Layer]
	if !ok {
		log.Error("[MONITOR] No receipt source for layer ", tx.Layer)
		return
	}

	receipt, err := source.GetTransactionReceipt(tx.Hash)
	if err != nil {
		log.Warn("[MONITOR] Failed to fetch receipt for ", tx.Hash, ": ", err)
		return
	}
	if receipt == nil {
		return
	}

	status := models.TransactionStatusFailed
	if receipt.Status == types.ReceiptStatusSuccessful {
		status = models.TransactionStatusPassed
	}

	if err := m.store.UpdateTransactionStatus(tx.Hash, models.TransactionStatusPending, status); err != nil {
		log.Warn("[MONITOR] Failed to update status for ", tx.Hash, ": ", err)
		return
	}

	log.Info("[MONITOR] Transaction ", tx.Hash, " is ", status)
}
