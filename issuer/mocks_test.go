package issuer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	log "github.com/sirupsen/logrus"

	"github.com/rtaibah/poap-sub000/models"
)

func init() {
	log.SetOutput(io.Discard)
}

// fakeStore is an in-memory Store. Insertion order stands in for created_at
// ordering.
type fakeStore struct {
	mu           sync.Mutex
	signers      []models.Signer
	transactions []*models.ServerTransaction
	claims       []*models.QrClaim
	settings     map[string]string
	tasks        []*models.Task

	insertTxFailures int
	listSignersErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{settings: map[string]string{}}
}

func (s *fakeStore) ListSignersByRole(layer models.Layer, role models.SignerRole) ([]models.Signer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listSignersErr != nil {
		return nil, s.listSignersErr
	}
	var out []models.Signer
	for _, signer := range s.signers {
		if signer.Layer == layer && signer.Role == role {
			out = append(out, signer)
		}
	}
	return out, nil
}

func (s *fakeStore) FindSigner(layer models.Layer, address string) (*models.Signer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.signers {
		if s.signers[i].Layer == layer && s.signers[i].Address == address {
			signer := s.signers[i]
			return &signer, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) CountPendingTransactions(layer models.Layer, signerAddress string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, tx := range s.transactions {
		if tx.Layer == layer && tx.SignerAddress == signerAddress && tx.Status == models.TransactionStatusPending {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) LastNonce(layer models.Layer, signerAddress string) (uint64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.transactions) - 1; i >= 0; i-- {
		tx := s.transactions[i]
		if tx.Layer == layer && tx.SignerAddress == signerAddress {
			return tx.Nonce, true, nil
		}
	}
	return 0, false, nil
}

func (s *fakeStore) InsertTransaction(tx *models.ServerTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.insertTxFailures > 0 {
		s.insertTxFailures--
		return errors.New("insert rejected")
	}
	record := *tx
	s.transactions = append(s.transactions, &record)
	return nil
}

func (s *fakeStore) FindTransactionByHash(hash string) (*models.ServerTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.transactions) - 1; i >= 0; i-- {
		if s.transactions[i].Hash == hash {
			tx := *s.transactions[i]
			return &tx, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) ListPendingTransactions() ([]models.ServerTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ServerTransaction
	for _, tx := range s.transactions {
		if tx.Status == models.TransactionStatusPending {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateTransactionStatus(hash string, from models.TransactionStatus, to models.TransactionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tx := range s.transactions {
		if tx.Hash == hash && tx.Status == from {
			tx.Status = to
		}
	}
	return nil
}

func (s *fakeStore) UpdateClaimTxHash(oldHash string, newHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, claim := range s.claims {
		if claim.TxHash == oldHash {
			claim.TxHash = newHash
		}
	}
	return nil
}

func (s *fakeStore) AttachClaimTransaction(qrHash string, txHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, claim := range s.claims {
		if claim.QrHash == qrHash {
			claim.TxHash = txHash
			claim.Claimed = true
		}
	}
	return nil
}

func (s *fakeStore) ListBlockedClaims() ([]models.QrClaim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.QrClaim
	for _, claim := range s.claims {
		if claim.Signature != "" && claim.TxHash == "" && !claim.Claimed {
			out = append(out, *claim)
		}
	}
	return out, nil
}

func (s *fakeStore) FindSetting(name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.settings[name]
	return value, ok, nil
}

func (s *fakeStore) ListTasksByStatus(statuses []models.TaskStatus) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Task
	for _, task := range s.tasks {
		for _, status := range statuses {
			if task.Status == status {
				out = append(out, *task)
				break
			}
		}
	}
	return out, nil
}

func (s *fakeStore) InsertTask(task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := *task
	s.tasks = append(s.tasks, &record)
	return nil
}

func (s *fakeStore) UpdateTask(task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == task.ID {
			record := *task
			s.tasks[i] = &record
			return nil
		}
	}
	return errors.New("task not found")
}

func (s *fakeStore) taskByID(id string) *models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			task := *s.tasks[i]
			return &task
		}
	}
	return nil
}

type fakeBalances struct {
	balances map[string]*big.Int
	errs     map[string]error
}

func (f *fakeBalances) GetBalance(address string) (*big.Int, error) {
	if err := f.errs[address]; err != nil {
		return nil, err
	}
	return f.balances[address], nil
}

type fakeWallet struct {
	address common.Address
}

func (w *fakeWallet) Address() common.Address { return w.address }

func (w *fakeWallet) TransactOpts(chainID *big.Int) (*bind.TransactOpts, error) {
	return &bind.TransactOpts{From: w.address}, nil
}

func (w *fakeWallet) SignHash(hash common.Hash) ([]byte, error) {
	return make([]byte, 65), nil
}

func (w *fakeWallet) Destroy() {}

type contractCall struct {
	method   string
	nonce    uint64
	gasLimit uint64
	gasPrice *big.Int
}

// fakeContract builds deterministic transactions from the submitted options.
// Without an explicit nonce it assigns its own counter, standing in for the
// chain client's pending-nonce lookup.
type fakeContract struct {
	mu                sync.Mutex
	err               error
	chainNonce        uint64
	calls             []contractCall
	delegatedTokenIDs []*big.Int
}

func (c *fakeContract) transact(opts *bind.TransactOpts, method string) (*types.Transaction, error) {
	if c.err != nil {
		return nil, c.err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var nonce uint64
	if opts.Nonce != nil {
		nonce = opts.Nonce.Uint64()
	} else {
		nonce = c.chainNonce
		c.chainNonce++
	}

	gasPrice := opts.GasPrice
	if gasPrice == nil {
		gasPrice = big.NewInt(0)
	}

	c.calls = append(c.calls, contractCall{
		method:   method,
		nonce:    nonce,
		gasLimit: opts.GasLimit,
		gasPrice: gasPrice,
	})

	return types.NewTransaction(nonce, common.Address{}, big.NewInt(0), opts.GasLimit, gasPrice, []byte(method)), nil
}

func (c *fakeContract) MintToken(opts *bind.TransactOpts, eventID *big.Int, to common.Address) (*types.Transaction, error) {
	return c.transact(opts, "mintToken")
}

func (c *fakeContract) MintEventToManyUsers(opts *bind.TransactOpts, eventID *big.Int, to []common.Address) (*types.Transaction, error) {
	return c.transact(opts, "mintEventToManyUsers")
}

func (c *fakeContract) MintUserToManyEvents(opts *bind.TransactOpts, eventIDs []*big.Int, to common.Address) (*types.Transaction, error) {
	return c.transact(opts, "mintUserToManyEvents")
}

func (c *fakeContract) MintDelegated(opts *bind.TransactOpts, eventID *big.Int, tokenID *big.Int, to common.Address, signature []byte) (*types.Transaction, error) {
	c.mu.Lock()
	c.delegatedTokenIDs = append(c.delegatedTokenIDs, tokenID)
	c.mu.Unlock()
	return c.transact(opts, "mintDelegated")
}

func (c *fakeContract) BurnToken(opts *bind.TransactOpts, tokenID *big.Int) (*types.Transaction, error) {
	return c.transact(opts, "burn")
}

func (c *fakeContract) Vote(opts *bind.TransactOpts, proposalID *big.Int) (*types.Transaction, error) {
	return c.transact(opts, "vote")
}

type fakeReceipts struct {
	mu       sync.Mutex
	receipts map[string]*types.Receipt
	errs     map[string]error
}

func newFakeReceipts() *fakeReceipts {
	return &fakeReceipts{
		receipts: map[string]*types.Receipt{},
		errs:     map[string]error{},
	}
}

func (f *fakeReceipts) GetTransactionReceipt(txHash string) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.errs[txHash]; err != nil {
		return nil, err
	}
	return f.receipts[txHash], nil
}

type fakeClient struct {
	receipts *fakeReceipts
	waitGate chan struct{}
}

func (c *fakeClient) ValidateNetwork()                {}
func (c *fakeClient) GetClient() *ethclient.Client    { return nil }
func (c *fakeClient) GetChainID() (*big.Int, error)   { return big.NewInt(1), nil }
func (c *fakeClient) GetBlockNumber() (uint64, error) { return 0, nil }

func (c *fakeClient) GetBalance(address string) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (c *fakeClient) GetTransactionReceipt(txHash string) (*types.Receipt, error) {
	return c.receipts.GetTransactionReceipt(txHash)
}

func (c *fakeClient) WaitForReceipt(ctx context.Context, txHash string) (*types.Receipt, error) {
	if c.waitGate != nil {
		<-c.waitGate
	}
	receipt, err := c.receipts.GetTransactionReceipt(txHash)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, fmt.Errorf("no receipt for %s", txHash)
	}
	return receipt, nil
}

// fakeExecutor records Execute calls for the bump and task tests.
type fakeExecutor struct {
	mu        sync.Mutex
	err       error
	nextNonce uint64
	calls     []executorCall
}

type executorCall struct {
	layer     models.Layer
	op        models.Operation
	overrides Overrides
}

func (f *fakeExecutor) Execute(ctx context.Context, layer models.Layer, op models.Operation, overrides Overrides) (*types.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	f.calls = append(f.calls, executorCall{layer: layer, op: op, overrides: overrides})

	nonce := f.nextNonce
	if overrides.Nonce != nil {
		nonce = *overrides.Nonce
	}
	gasPrice := overrides.GasPrice
	if gasPrice == nil {
		gasPrice = big.NewInt(1)
	}
	return types.NewTransaction(nonce, common.Address{}, big.NewInt(0), 21000, gasPrice, []byte(op.Kind())), nil
}
