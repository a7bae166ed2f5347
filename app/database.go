package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/rtaibah/poap-sub000/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Database is the set of named queries the platform needs. The schema is not
// redesigned here; every mutation is a single-row write keyed by hash or id.
type Database interface {
	Connect() error
	Migrate() error
	Disconnect() error

	ListSignersByRole(layer models.Layer, role models.SignerRole) ([]models.Signer, error)
	FindSigner(layer models.Layer, address string) (*models.Signer, error)
	UpsertSigner(signer *models.Signer) error

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

	UpsertServiceHealth(health models.ServiceHealth) error
}

// postgresDatabase is a wrapper around the postgres database
type postgresDatabase struct {
	db     *gorm.DB
	config models.PostgresConfig
}

var (
	DB Database
)

var migrateEntities = []interface{}{
	models.Signer{},
	models.ServerTransaction{},
	models.QrClaim{},
	models.Task{},
	models.Setting{},
	models.ServiceHealth{},
}

func (d *postgresDatabase) timeoutCtx() (context.Context, context.CancelFunc) {
	timeout := d.config.TimeoutMillis
	if timeout <= 0 {
		timeout = 5000
	}
	return context.WithTimeout(context.Background(), time.Duration(timeout)*time.Millisecond)
}

// Connect connects to the database
func (d *postgresDatabase) Connect() error {
	log.Debug("[DB] Connecting to database")

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.config.Host, d.config.Port, d.config.User, d.config.Password, d.config.Database, d.config.SSLMode,
	)

	logLevel := gormlogger.Silent
	if d.config.LogQueries {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return err
	}
	d.db = db

	log.Info("[DB] Connected to postgres database: ", d.config.Database)
	return nil
}

func (d *postgresDatabase) Migrate() error {
	log.Debug("[DB] Running migrations")
	err := d.db.AutoMigrate(migrateEntities...)
	if err != nil {
		return err
	}
	log.Info("[DB] Migrations complete")
	return nil
}

// Disconnect disconnects from the database
func (d *postgresDatabase) Disconnect() error {
	log.Debug("[DB] Disconnecting from database")
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	err = sqlDB.Close()
	log.Info("[DB] Disconnected from database")
	return err
}

func (d *postgresDatabase) ListSignersByRole(layer models.Layer, role models.SignerRole) ([]models.Signer, error) {
	ctx, cancel := d.timeoutCtx()
	defer cancel()

	var signers []models.Signer
	err := d.db.WithContext(ctx).
		Where("layer = ? AND role = ?", layer, role).
		Find(&signers).Error
	return signers, err
}

func (d *postgresDatabase) FindSigner(layer models.Layer, address string) (*models.Signer, error) {
	ctx, cancel := d.timeoutCtx()
	defer cancel()

	var signer models.Signer
	err := d.db.WithContext(ctx).
		Where("layer = ? AND address = ?", layer, address).
		First(&signer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &signer, nil
}

func (d *postgresDatabase) UpsertSigner(signer *models.Signer) error {
	ctx, cancel := d.timeoutCtx()
	defer cancel()

	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}, {Name: "layer"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "gas_price", "updated_at"}),
	}).Create(signer).Error
}

func (d *postgresDatabase) CountPendingTransactions(layer models.Layer, signerAddress string) (int64, error) {
	ctx, cancel := d.timeoutCtx()
	defer cancel()

	var count int64
	err := d.db.WithContext(ctx).Model(&models.ServerTransaction{}).
		Where("layer = ? AND signer = ? AND status = ?", layer, signerAddress, models.TransactionStatusPending).
		Count(&count).Error
	return count, err
}

func (d *postgresDatabase) LastNonce(layer models.Layer, signerAddress string) (uint64, bool, error) {
	ctx, cancel := d.timeoutCtx()
	defer cancel()

	var tx models.ServerTransaction
	err := d.db.WithContext(ctx).
		Where("layer = ? AND signer = ?", layer, signerAddress).
		Order("created_at DESC").
		First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return tx.Nonce, true, nil
}

func (d *postgresDatabase) InsertTransaction(tx *models.ServerTransaction) error {
	ctx, cancel := d.timeoutCtx()
	defer cancel()

	return d.db.WithContext(ctx).Create(tx).Error
}

func (d *postgresDatabase) FindTransactionByHash(hash string) (*models.ServerTransaction, error) {
	ctx, cancel := d.timeoutCtx()
	defer cancel()

	var tx models.ServerTransaction
	err := d.db.WithContext(ctx).
		Where("tx_hash = ?", hash).
		Order("created_at DESC").
		First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (d *postgresDatabase) ListPendingTransactions() ([]models.ServerTransaction, error) {
	ctx, cancel := d.timeoutCtx()
	defer cancel()

	var txs []models.ServerTransaction
	err := d.db.WithContext(ctx).
		Where("status = ?", models.TransactionStatusPending).
		Find(&txs).Error
	return txs, err
}

// UpdateTransactionStatus guards on the current status so a terminal status
// can never regress.
func (d *postgresDatabase) UpdateTransactionStatus(hash string, from models.TransactionStatus, to models.TransactionStatus) error {
	ctx, cancel := d.timeoutCtx()
	defer cancel()

	return d.db.WithContext(ctx).Model(&models.ServerTransaction{}).
		Where("tx_hash = ? AND status = ?", hash, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()}).Error
}

func (d *postgresDatabase) UpdateClaimTxHash(oldHash string, newHash string) error {
	ctx, cancel := d.timeoutCtx()
	defer cancel()

	return d.db.WithContext(ctx).Model(&models.QrClaim{}).
		Where("tx_hash = ?", oldHash).
		Updates(map[string]interface{}{"tx_hash": newHash, "updated_at": time.Now()}).Error
}

func (d *postgresDatabase) AttachClaimTransaction(qrHash string, txHash string) error {
	ctx, cancel := d.timeoutCtx()
	defer cancel()

	return d.db.WithContext(ctx).Model(&models.QrClaim{}).
		Where("qr_hash = ?", qrHash).
		Updates(map[string]interface{}{"tx_hash": txHash, "claimed": true, "updated_at": time.Now()}).Error
}

// ListBlockedClaims returns delegated claims that were signed off-chain but
// whose mint transaction never landed.
func (d *postgresDatabase) ListBlockedClaims() ([]models.QrClaim, error) {
	ctx, cancel := d.timeoutCtx()
	defer cancel()

	var claims []models.QrClaim
	err := d.db.WithContext(ctx).
		Where("signature <> '' AND tx_hash = '' AND claimed = ?", false).
		Find(&claims).Error
	return claims, err
}

func (d *postgresDatabase) FindSetting(name string) (string, bool, error) {
	ctx, cancel := d.timeoutCtx()
	defer cancel()

	var setting models.Setting
	err := d.db.WithContext(ctx).
		Where("name = ?", name).
		First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return setting.Value, true, nil
}

func (d *postgresDatabase) ListTasksByStatus(statuses []models.TaskStatus) ([]models.Task, error) {
	ctx, cancel := d.timeoutCtx()
	defer cancel()

	var tasks []models.Task
	err := d.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("created_at ASC").
		Find(&tasks).Error
	return tasks, err
}

func (d *postgresDatabase) InsertTask(task *models.Task) error {
	ctx, cancel := d.timeoutCtx()
	defer cancel()

	return d.db.WithContext(ctx).Create(task).Error
}

func (d *postgresDatabase) UpdateTask(task *models.Task) error {
	ctx, cancel := d.timeoutCtx()
	defer cancel()

	return d.db.WithContext(ctx).Save(task).Error
}

func (d *postgresDatabase) UpsertServiceHealth(health models.ServiceHealth) error {
	ctx, cancel := d.timeoutCtx()
	defer cancel()

	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_sync_time", "next_sync_time", "healthy"}),
	}).Create(&health).Error
}

// InitDB creates a new database wrapper
func InitDB() {
	DB = &postgresDatabase{
		config: Config.Postgres,
	}

	err := DB.Connect()
	if err != nil {
		log.Fatal(err)
	}
	err = DB.Migrate()
	if err != nil {
		log.Fatal(err)
	}
	log.Info("[DB] Database initialized")
}
