package models

import "time"

type Layer string

const (
	LayerPrimary   Layer = "Layer1"
	LayerSecondary Layer = "Layer2"
)

type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusPassed  TransactionStatus = "passed"
	TransactionStatusFailed  TransactionStatus = "failed"
	TransactionStatusBumped  TransactionStatus = "bumped"
)

type OperationKind string

const (
	OpMintToken            OperationKind = "mintToken"
	OpMintEventToManyUsers OperationKind = "mintEventToManyUsers"
	OpMintUserToManyEvents OperationKind = "mintUserToManyEvents"
	OpBurnToken            OperationKind = "burnToken"
	OpMintDelegated        OperationKind = "mintDelegated"
	OpVote                 OperationKind = "vote"
)

// MaxArgumentsLength bounds the serialized arguments column; longer payloads
// are truncated before insert so the write cannot fail on column size.
const MaxArgumentsLength = 950

// ServerTransaction is one submitted chain transaction. The hash is unique
// while the row is not superseded; a bumped row is replaced by a new row with
// the same signer and nonce but a new hash and a higher gas price.
type ServerTransaction struct {
	ID            uint              `gorm:"primaryKey"`
	Hash          string            `gorm:"column:tx_hash;size:66;index"`
	Nonce         uint64            `gorm:"column:nonce"`
	SignerAddress string            `gorm:"column:signer;size:42;index"`
	Layer         Layer             `gorm:"column:layer;size:8"`
	Operation     OperationKind     `gorm:"column:operation;size:32"`
	Arguments     string            `gorm:"column:arguments;size:950"`
	Status        TransactionStatus `gorm:"column:status;size:8;index"`
	GasPrice      string            `gorm:"column:gas_price;size:32"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (ServerTransaction) TableName() string {
	return "server_transactions"
}
