package models

import (
	"math/big"
	"time"
)

type SignerRole string

const (
	SignerRoleAdministrator SignerRole = "administrator"
	SignerRoleStandard      SignerRole = "standard"
)

// Signer is a hot wallet authorized to sign transactions on one chain layer.
// Administrator signers are reserved for operations that must not be spread
// across the helper pool (batch mint, burn). Balance and pending count are
// derived on read, never stored.
type Signer struct {
	ID       uint       `gorm:"primaryKey"`
	Address  string     `gorm:"column:address;size:42;uniqueIndex:idx_signer_address_layer"`
	Layer    Layer      `gorm:"column:layer;size:8;uniqueIndex:idx_signer_address_layer"`
	Role     SignerRole `gorm:"column:role;size:16"`
	GasPrice string     `gorm:"column:gas_price;size:32"` // wei, empty means fall back to the global setting

	CreatedAt time.Time
	UpdatedAt time.Time

	PendingCount int64    `gorm:"-"`
	Balance      *big.Int `gorm:"-"`
}

func (Signer) TableName() string {
	return "signers"
}
