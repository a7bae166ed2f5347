package models

type Config struct {
	Logger              LoggerConfig              `yaml:"logger"`
	Postgres            PostgresConfig            `yaml:"postgres"`
	GoogleSecretManager GoogleSecretManagerConfig `yaml:"google_secret_manager"`
	PrimaryLayer        ChainConfig               `yaml:"primary_layer"`
	SecondaryLayer      ChainConfig               `yaml:"secondary_layer"`
	SignerPool          SignerPoolConfig          `yaml:"signer_pool"`
	AdminSigner         AdminSignerConfig         `yaml:"admin_signer"`
	TxMonitor           ServiceConfig             `yaml:"tx_monitor"`
	TaskProcessor       ServiceConfig             `yaml:"task_processor"`
	Health              ServiceConfig             `yaml:"health"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
}

type PostgresConfig struct {
	Host          string `yaml:"host"`
	Port          int64  `yaml:"port"`
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	Database      string `yaml:"database"`
	SSLMode       string `yaml:"ssl_mode"`
	TimeoutMillis int64  `yaml:"timeout_millis"`
	LogQueries    bool   `yaml:"log_queries"`
}

type GoogleSecretManagerConfig struct {
	Enabled            bool   `yaml:"enabled"`
	ProjectId          string `yaml:"project_id"`
	MnemonicSecretName string `yaml:"mnemonic_secret_name"`
	AdminSecretName    string `yaml:"admin_secret_name"`
}

// ChainConfig describes one chain layer the platform issues transactions on.
type ChainConfig struct {
	RPCURL           string `yaml:"rpc_url"`
	ChainID          string `yaml:"chain_id"`
	RPCTimeoutMillis int64  `yaml:"rpc_timeout_millis"`
	PoapAddress      string `yaml:"poap_address"`
	// ReceiptSource selects how the monitor fetches receipts on this layer:
	// "rpc" for a direct node call, "explorer" for a block-explorer API.
	ReceiptSource  string `yaml:"receipt_source"`
	ExplorerAPIURL string `yaml:"explorer_api_url"`
}

type SignerPoolConfig struct {
	Mnemonic string `yaml:"mnemonic"`
	Size     int64  `yaml:"size"`
	// MinBalanceWei is the minimum balance a pool signer must hold to be
	// eligible for new work.
	MinBalanceWei string `yaml:"min_balance_wei"`
}

type AdminSignerConfig struct {
	PrivateKey string `yaml:"private_key"`
	KMSKeyName string `yaml:"kms_key_name"`
}

type ServiceConfig struct {
	Enabled        bool  `yaml:"enabled"`
	IntervalMillis int64 `yaml:"interval_millis"`
	Concurrency    int64 `yaml:"concurrency"`
}
