package models

import "time"

// QrClaim lets an end user track a badge claim by transaction hash. The bump
// engine repoints tx_hash when a single-mint transaction is superseded.
type QrClaim struct {
	ID          uint   `gorm:"primaryKey"`
	QrHash      string `gorm:"column:qr_hash;size:64;uniqueIndex"`
	EventID     uint64 `gorm:"column:event_id;index"`
	TokenID     uint64 `gorm:"column:token_id"`
	Beneficiary string `gorm:"column:beneficiary;size:42"`
	TxHash      string `gorm:"column:tx_hash;size:66;index"`
	Signature   string `gorm:"column:signature;size:640"`
	Claimed     bool   `gorm:"column:claimed"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (QrClaim) TableName() string {
	return "qr_claims"
}
