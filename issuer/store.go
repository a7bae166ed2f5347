package issuer

import (
	"github.com/rtaibah/poap-sub000/models"
)

// Store is the slice of the database surface the issuance pipeline reads and
// writes. It is satisfied by app.Database and by the mocks in the tests.
type Store interface {
	ListSignersByRole(layer models.Layer, role models.SignerRole) ([]models.Signer, error)
	FindSigner(layer models.Layer, address string) (*models.Signer, error)

	CountPendingTransactions(layer models.Layer, signerAddress string) (int64, error)
	LastNonce(layer models.Layer, signerAddress string) (uint64, bool, error)
	InsertTransaction(tx *models.ServerTransaction) error
	FindTransactionByHash(hash string) (*models.ServerTransaction, error)
	ListPendingTransactions() ([]models.ServerTransaction, error)
	UpdateTransactionStatus(hash string, from models.TransactionStatus, to models.TransactionStatus) error

	UpdateClaimTxHash(oldHash string, newHash string) error
	AttachClaimTransaction(qrHash string, txHash string) error
	ListBlockedClaims() ([]models.QrClaim, error)

	FindSetting(name string) (string, bool, error)

	ListTasksByStatus(statuses []models.TaskStatus) ([]models.Task, error)
	InsertTask(task *models.Task) error
	UpdateTask(task *models.Task) error
}
