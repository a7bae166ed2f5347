package issuer

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"

	"github.com/rtaibah/poap-sub000/chain"
	"github.com/rtaibah/poap-sub000/models"
)

func pendingTx(layer models.Layer, hash string) *models.ServerTransaction {
	return &models.ServerTransaction{
		Hash:          hash,
		Layer:         layer,
		SignerAddress: addressA,
		Status:        models.TransactionStatusPending,
	}
}

func newTestMonitor(store *fakeStore, receipts *fakeReceipts) *Monitor {
	return NewMonitor(store, map[models.Layer]chain.ReceiptSource{
		models.LayerPrimary:   receipts,
		models.LayerSecondary: receipts,
	}, 4)
}

func TestMonitorLeavesUnminedPending(t *testing.T) {
	store := newFakeStore()
	store.transactions = append(store.transactions, pendingTx(models.LayerPrimary, "0xabc"))

	monitor := newTestMonitor(store, newFakeReceipts())
	monitor.Run()

	assert.Equal(t, models.TransactionStatusPending, store.transactions[0].Status)
}

func TestMonitorMarksPassedOnSuccess(t *testing.T) {
	store := newFakeStore()
	store.transactions = append(store.transactions, pendingTx(models.LayerPrimary, "0xabc"))

	receipts := newFakeReceipts()
	receipts.receipts["0xabc"] = &types.Receipt{Status: types.ReceiptStatusSuccessful}

	monitor := newTestMonitor(store, receipts)
	monitor.Run()

	assert.Equal(t, models.TransactionStatusPassed, store.transactions[0].Status)
}

func TestMonitorMarksFailedOnRevert(t *testing.T) {
	store := newFakeStore()
	store.transactions = append(store.transactions, pendingTx(models.LayerPrimary, "0xabc"))

	receipts := newFakeReceipts()
	receipts.receipts["0xabc"] = &types.Receipt{Status: types.ReceiptStatusFailed}

	monitor := newTestMonitor(store, receipts)
	monitor.Run()

	assert.Equal(t, models.TransactionStatusFailed, store.transactions[0].Status)
}

func TestMonitorOneFailureDoesNotBlockSweep(t *testing.T) {
	store := newFakeStore()
	store.transactions = append(store.transactions,
		pendingTx(models.LayerPrimary, "0xbad"),
		pendingTx(models.LayerPrimary, "0xgood"),
	)

	receipts := newFakeReceipts()
	receipts.errs["0xbad"] = errors.New("explorer timeout")
	receipts.receipts["0xgood"] = &types.Receipt{Status: types.ReceiptStatusSuccessful}

	monitor := newTestMonitor(store, receipts)
	monitor.Run()

	assert.Equal(t, models.TransactionStatusPending, store.transactions[0].Status)
	assert.Equal(t, models.TransactionStatusPassed, store.transactions[1].Status)
}

func TestMonitorTwoSweepScenario(t *testing.T) {
	store := newFakeStore()
	store.transactions = append(store.transactions, pendingTx(models.LayerPrimary, "0xabc"))

	receipts := newFakeReceipts()
	monitor := newTestMonitor(store, receipts)

	monitor.Run()
	assert.Equal(t, models.TransactionStatusPending, store.transactions[0].Status)

	receipts.receipts["0xabc"] = &types.Receipt{Status: types.ReceiptStatusSuccessful}
	monitor.Run()
	assert.Equal(t, models.TransactionStatusPassed, store.transactions[0].Status)
}

func TestMonitorIgnoresTerminalRows(t *testing.T) {
	store := newFakeStore()
	passed := pendingTx(models.LayerPrimary, "0xabc")
	passed.Status = models.TransactionStatusPassed
	store.transactions = append(store.transactions, passed)

	receipts := newFakeReceipts()
	receipts.receipts["0xabc"] = &types.Receipt{Status: types.ReceiptStatusFailed}

	monitor := newTestMonitor(store, receipts)
	monitor.Run()

	assert.Equal(t, models.TransactionStatusPassed, store.transactions[0].Status)
}

func TestMonitorMissingReceiptSource(t *testing.T) {
	store := newFakeStore()
	store.transactions = append(store.transactions, pendingTx(models.Layer("Layer9"), "0xabc"))

	monitor := newTestMonitor(store, newFakeReceipts())
	monitor.Run()

	assert.Equal(t, models.TransactionStatusPending, store.transactions[0].Status)
}
