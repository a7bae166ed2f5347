package issuer

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"

	"github.com/rtaibah/poap-sub000/app"
	"github.com/rtaibah/poap-sub000/chain"
	"github.com/rtaibah/poap-sub000/models"
)

// Pipeline is the fully wired issuance core plus the handles the daemon and
// the operational scripts need for startup and shutdown.
type Pipeline struct {
	Layers   map[models.Layer]*ChainLayer
	Receipts map[models.Layer]chain.ReceiptSource
	Executor *Executor
	Bumper   *Bumper
	Monitor  *Monitor
	Tasks    *TaskProcessor

	wallets []chain.Wallet
}

func (p *Pipeline) Destroy() {
	for _, wallet := range p.wallets {
		wallet.Destroy()
	}
}

func newAdminWallet() chain.Wallet {
	if app.Config.AdminSigner.KMSKeyName != "" {
		wallet, err := chain.NewKMSWallet(app.Config.AdminSigner.KMSKeyName)
		if err != nil {
			log.Fatal("[PIPELINE] Failed to create KMS admin wallet: ", err)
		}
		return wallet
	}

	wallet, err := chain.NewKeyedWallet(app.Config.AdminSigner.PrivateKey)
	if err != nil {
		log.Fatal("[PIPELINE] Failed to load admin private key: ", err)
	}
	return wallet
}

func buildChainLayer(
	layer models.Layer,
	config models.ChainConfig,
	pool []chain.Wallet,
	admin chain.Wallet,
	minBalance *big.Int,
) *ChainLayer {
	client, err := chain.NewClient(config)
	if err != nil {
		log.Fatal("[PIPELINE] Failed to connect to ", layer, ": ", err)
	}
	client.ValidateNetwork()

	chainID, ok := new(big.Int).SetString(config.ChainID, 10)
	if !ok {
		log.Fatal("[PIPELINE] Invalid chain id ", config.ChainID, " for ", layer)
	}

	contract, err := chain.NewPoapContract(common.HexToAddress(config.PoapAddress), client.GetClient())
	if err != nil {
		log.Fatal("[PIPELINE] Failed to bind contract on ", layer, ": ", err)
	}

	var receipts chain.ReceiptSource = client
	if config.ReceiptSource == "explorer" {
		receipts = chain.NewExplorerClient(config.ExplorerAPIURL, config.RPCTimeoutMillis)
	}

	wallets := map[string]chain.Wallet{
		admin.Address().Hex(): admin,
	}
	for _, wallet := range pool {
		wallets[wallet.Address().Hex()] = wallet
	}

	return &ChainLayer{
		ChainID:    chainID,
		Client:     client,
		Contract:   contract,
		Receipts:   receipts,
		Admin:      admin,
		Wallets:    wallets,
		MinBalance: minBalance,
	}
}

func registerSigners(layer models.Layer, pool []chain.Wallet, admin chain.Wallet) {
	for _, wallet := range pool {
		err := app.DB.UpsertSigner(&models.Signer{
			Address: wallet.Address().Hex(),
			Layer:   layer,
			Role:    models.SignerRoleStandard,
		})
		if err != nil {
			log.Fatal("[PIPELINE] Failed to register signer ", wallet.Address().Hex(), ": ", err)
		}
	}

	err := app.DB.UpsertSigner(&models.Signer{
		Address: admin.Address().Hex(),
		Layer:   layer,
		Role:    models.SignerRoleAdministrator,
	})
	if err != nil {
		log.Fatal("[PIPELINE] Failed to register admin signer: ", err)
	}
}

// BuildPipeline wires the issuance core from the loaded config: chain clients
// per layer, the wallet pool, the admin wallet, and the components on top.
// Config and database must be initialized first.
func BuildPipeline() *Pipeline {
	pool, err := chain.DeriveWalletPool(app.Config.SignerPool.Mnemonic, app.Config.SignerPool.Size)
	if err != nil {
		log.Fatal("[PIPELINE] Failed to derive signer pool: ", err)
	}
	admin := newAdminWallet()

	minBalance := big.NewInt(0)
	if app.Config.SignerPool.MinBalanceWei != "" {
		parsed, ok := new(big.Int).SetString(app.Config.SignerPool.MinBalanceWei, 10)
		if !ok {
			log.Fatal("[PIPELINE] Invalid pool minimum balance ", app.Config.SignerPool.MinBalanceWei)
		}
		minBalance = parsed
	}

	layers := map[models.Layer]*ChainLayer{
		models.LayerPrimary:   buildChainLayer(models.LayerPrimary, app.Config.PrimaryLayer, pool, admin, minBalance),
		models.LayerSecondary: buildChainLayer(models.LayerSecondary, app.Config.SecondaryLayer, pool, admin, minBalance),
	}

	receipts := map[models.Layer]chain.ReceiptSource{}
	balances := map[models.Layer]BalanceSource{}
	for layer, chainLayer := range layers {
		receipts[layer] = chainLayer.Receipts
		balances[layer] = chainLayer.Client
		registerSigners(layer, pool, admin)
	}

	resolver := NewResolver(app.DB, balances)
	builder := NewBuilder(app.DB)
	executor := NewExecutor(app.DB, resolver, builder, layers)

	return &Pipeline{
		Layers:   layers,
		Receipts: receipts,
		Executor: executor,
		Bumper:   NewBumper(app.DB, executor),
		Monitor:  NewMonitor(app.DB, receipts, int(app.Config.TxMonitor.Concurrency)),
		Tasks:    NewTaskProcessor(app.DB, executor, receipts),
		wallets:  append(append([]chain.Wallet{}, pool...), admin),
	}
}
