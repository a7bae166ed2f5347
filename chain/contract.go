package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// poapABI covers the contract methods the executor invokes. The contract
// itself is a black box; only the method surface matters here.
const poapABI = `[
	{"type":"function","name":"mintToken","stateMutability":"nonpayable","inputs":[{"name":"eventId","type":"uint256"},{"name":"to","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"mintEventToManyUsers","stateMutability":"nonpayable","inputs":[{"name":"eventId","type":"uint256"},{"name":"to","type":"address[]"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"mintUserToManyEvents","stateMutability":"nonpayable","inputs":[{"name":"eventIds","type":"uint256[]"},{"name":"to","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"mintDelegated","stateMutability":"nonpayable","inputs":[{"name":"eventId","type":"uint256"},{"name":"tokenId","type":"uint256"},{"name":"to","type":"address"},{"name":"signature","type":"bytes"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"burn","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"vote","stateMutability":"nonpayable","inputs":[{"name":"proposalId","type":"uint256"}],"outputs":[]}
]`

type PoapContract interface {
	MintToken(opts *bind.TransactOpts, eventID *big.Int, to common.Address) (*types.Transaction, error)
	MintEventToManyUsers(opts *bind.TransactOpts, eventID *big.Int, to []common.Address) (*types.Transaction, error)
	MintUserToManyEvents(opts *bind.TransactOpts, eventIDs []*big.Int, to common.Address) (*types.Transaction, error)
	MintDelegated(opts *bind.TransactOpts, eventID *big.Int, tokenID *big.Int, to common.Address, signature []byte) (*types.Transaction, error)
	BurnToken(opts *bind.TransactOpts, tokenID *big.Int) (*types.Transaction, error)
	Vote(opts *bind.TransactOpts, proposalID *big.Int) (*types.Transaction, error)
}

type poapContract struct {
	contract *bind.BoundContract
}

var _ PoapContract = &poapContract{}

func NewPoapContract(address common.Address, backend bind.ContractBackend) (PoapContract, error) {
	parsed, err := abi.JSON(strings.NewReader(poapABI))
	if err != nil {
		return nil, err
	}

	contract := bind.NewBoundContract(address, parsed, backend, backend, backend)
	return &poapContract{contract: contract}, nil
}

func (c *poapContract) MintToken(opts *bind.TransactOpts, eventID *big.Int, to common.Address) (*types.Transaction, error) {
	return c.contract.Transact(opts, "mintToken", eventID, to)
}

func (c *poapContract) MintEventToManyUsers(opts *bind.TransactOpts, eventID *big.Int, to []common.Address) (*types.Transaction, error) {
	return c.contract.Transact(opts, "mintEventToManyUsers", eventID, to)
}

func (c *poapContract) MintUserToManyEvents(opts *bind.TransactOpts, eventIDs []*big.Int, to common.Address) (*types.Transaction, error) {
	return c.contract.Transact(opts, "mintUserToManyEvents", eventIDs, to)
}

func (c *poapContract) MintDelegated(opts *bind.TransactOpts, eventID *big.Int, tokenID *big.Int, to common.Address, signature []byte) (*types.Transaction, error) {
	return c.contract.Transact(opts, "mintDelegated", eventID, tokenID, to, signature)
}

func (c *poapContract) BurnToken(opts *bind.TransactOpts, tokenID *big.Int) (*types.Transaction, error) {
	return c.contract.Transact(opts, "burn", tokenID)
}

func (c *poapContract) Vote(opts *bind.TransactOpts, proposalID *big.Int) (*types.Transaction, error) {
	return c.contract.Transact(opts, "vote", proposalID)
}
