package chain

import (
	"context"
	"errors"
	"time"

	"math/big"

	"github.com/cenkalti/backoff/v5"
	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	log "github.com/sirupsen/logrus"

	"github.com/rtaibah/poap-sub000/models"
)

// ReceiptSource fetches a transaction receipt; a nil receipt with a nil error
// means the transaction is not mined yet.
type ReceiptSource interface {
	GetTransactionReceipt(txHash string) (*types.Receipt, error)
}

type Client interface {
	ValidateNetwork()
	GetClient() *ethclient.Client
	GetChainID() (*big.Int, error)
	GetBlockNumber() (uint64, error)
	GetBalance(address string) (*big.Int, error)
	GetTransactionReceipt(txHash string) (*types.Receipt, error)
	WaitForReceipt(ctx context.Context, txHash string) (*types.Receipt, error)
}

type ethereumClient struct {
	client *ethclient.Client
	config models.ChainConfig
}

func (c *ethereumClient) timeoutCtx() (context.Context, context.CancelFunc) {
	timeout := c.config.RPCTimeoutMillis
	if timeout <= 0 {
		timeout = 10000
	}
	return context.WithTimeout(context.Background(), time.Duration(timeout)*time.Millisecond)
}

func (c *ethereumClient) GetClient() *ethclient.Client {
	return c.client
}

func (c *ethereumClient) GetBlockNumber() (uint64, error) {
	ctx, cancel := c.timeoutCtx()
	defer cancel()

	blockNumber, err := c.client.BlockNumber(ctx)
	if err != nil {
		return 0, err
	}

	return blockNumber, nil
}

func (c *ethereumClient) GetChainID() (*big.Int, error) {
	ctx, cancel := c.timeoutCtx()
	defer cancel()

	chainID, err := c.client.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	return chainID, nil
}

func (c *ethereumClient) GetBalance(address string) (*big.Int, error) {
	ctx, cancel := c.timeoutCtx()
	defer cancel()

	return c.client.BalanceAt(ctx, common.HexToAddress(address), nil)
}

func (c *ethereumClient) GetTransactionReceipt(txHash string) (*types.Receipt, error) {
	ctx, cancel := c.timeoutCtx()
	defer cancel()

	receipt, err := c.client.TransactionReceipt(ctx, common.HexToHash(txHash))
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

var errNotMined = errors.New("transaction not yet mined")

// WaitForReceipt polls the node until the transaction is mined or the caller
// cancels the context.
func (c *ethereumClient) WaitForReceipt(ctx context.Context, txHash string) (*types.Receipt, error) {
	return backoff.Retry(
		ctx,
		func() (*types.Receipt, error) {
			receipt, err := c.GetTransactionReceipt(txHash)
			if err != nil {
				return nil, err
			}
			if receipt == nil {
				return nil, errNotMined
			}
			return receipt, nil
		},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithNotify(func(err error, d time.Duration) {
			log.Debug("[ETH] Waiting for receipt ", txHash, ": ", err, " - retrying after ", d)
		}),
	)
}

func (c *ethereumClient) ValidateNetwork() {
	log.Debugln("[ETH]", "Validating network")
	log.Debugln("[ETH]", "uri", c.config.RPCURL)

	chainID, err := c.GetChainID()
	if err != nil {
		log.Fatalln("[ETH]", "Failed to get chain ID:", err)
	}
	blockNumber, err := c.GetBlockNumber()
	if err != nil {
		log.Fatalln("[ETH]", "Failed to get block number:", err)
	}

	log.Debugln("[ETH]", "chainID", chainID.Uint64())

	if chainID.String() != c.config.ChainID {
		log.Fatalln("[ETH]", "Chain ID Mismatch", "expected", c.config.ChainID, "got", chainID.Uint64())
	}

	log.Debugln("[ETH]", "blockNumber", blockNumber)

	log.Infoln("[ETH]", "Validated network")
}

func NewClient(config models.ChainConfig) (Client, error) {
	client, err := ethclient.Dial(config.RPCURL)
	return &ethereumClient{
		client: client,
		config: config,
	}, err
}
