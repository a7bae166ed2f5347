package issuer

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rtaibah/poap-sub000/models"
)

func TestGasLimitForBatch(t *testing.T) {
	// ceil((35708 + 1*136907) * 1.5)
	assert.Equal(t, uint64(258923), GasLimitForBatch(1))

	// Zero and negative sizes clamp to a single item.
	assert.Equal(t, uint64(258923), GasLimitForBatch(0))
	assert.Equal(t, uint64(258923), GasLimitForBatch(-3))
}

func TestGasLimitMonotonicInBatchSize(t *testing.T) {
	previous := GasLimitForBatch(1)
	for n := 2; n <= 100; n++ {
		current := GasLimitForBatch(n)
		assert.Greater(t, current, previous)
		previous = current
	}
}

func TestBuilderGasPricePrecedence(t *testing.T) {
	t.Run("Override wins", func(t *testing.T) {
		store := newFakeStore()
		signer := poolSigner(models.LayerPrimary, addressA)
		signer.GasPrice = "5000"
		store.signers = []models.Signer{signer}
		store.settings[models.SettingDefaultGasPrice] = "7000"

		builder := NewBuilder(store)
		params, err := builder.Build(models.LayerPrimary, addressA, 1, Overrides{GasPrice: big.NewInt(9000)})
		assert.NoError(t, err)
		assert.Equal(t, big.NewInt(9000), params.GasPrice)
	})

	t.Run("Signer price beats global setting", func(t *testing.T) {
		store := newFakeStore()
		signer := poolSigner(models.LayerPrimary, addressA)
		signer.GasPrice = "5000"
		store.signers = []models.Signer{signer}
		store.settings[models.SettingDefaultGasPrice] = "7000"

		builder := NewBuilder(store)
		params, err := builder.Build(models.LayerPrimary, addressA, 1, Overrides{})
		assert.NoError(t, err)
		assert.Equal(t, big.NewInt(5000), params.GasPrice)
	})

	t.Run("Global setting beats default", func(t *testing.T) {
		store := newFakeStore()
		store.signers = []models.Signer{poolSigner(models.LayerPrimary, addressA)}
		store.settings[models.SettingDefaultGasPrice] = "7000"

		builder := NewBuilder(store)
		params, err := builder.Build(models.LayerPrimary, addressA, 1, Overrides{})
		assert.NoError(t, err)
		assert.Equal(t, big.NewInt(7000), params.GasPrice)
	})

	t.Run("Hardcoded default as last resort", func(t *testing.T) {
		store := newFakeStore()
		store.signers = []models.Signer{poolSigner(models.LayerPrimary, addressA)}

		builder := NewBuilder(store)
		params, err := builder.Build(models.LayerPrimary, addressA, 1, Overrides{})
		assert.NoError(t, err)
		assert.Equal(t, DefaultGasPriceWei, params.GasPrice)
	})

	t.Run("Invalid signer price is an error", func(t *testing.T) {
		store := newFakeStore()
		signer := poolSigner(models.LayerPrimary, addressA)
		signer.GasPrice = "not-a-number"
		store.signers = []models.Signer{signer}

		builder := NewBuilder(store)
		_, err := builder.Build(models.LayerPrimary, addressA, 1, Overrides{})
		assert.Error(t, err)
	})
}

func TestBuilderNoncePrecedence(t *testing.T) {
	t.Run("Override wins", func(t *testing.T) {
		store := newFakeStore()
		store.transactions = append(store.transactions, &models.ServerTransaction{
			Layer:         models.LayerPrimary,
			SignerAddress: addressA,
			Nonce:         9,
		})

		builder := NewBuilder(store)
		nonce := uint64(42)
		params, err := builder.Build(models.LayerPrimary, addressA, 1, Overrides{Nonce: &nonce})
		assert.NoError(t, err)
		assert.NotNil(t, params.Nonce)
		assert.Equal(t, uint64(42), *params.Nonce)
	})

	t.Run("One past the last recorded nonce", func(t *testing.T) {
		store := newFakeStore()
		store.transactions = append(store.transactions, &models.ServerTransaction{
			Layer:         models.LayerPrimary,
			SignerAddress: addressA,
			Nonce:         9,
		})

		builder := NewBuilder(store)
		params, err := builder.Build(models.LayerPrimary, addressA, 1, Overrides{})
		assert.NoError(t, err)
		assert.NotNil(t, params.Nonce)
		assert.Equal(t, uint64(10), *params.Nonce)
	})

	t.Run("Chain-assigned when no history", func(t *testing.T) {
		store := newFakeStore()

		builder := NewBuilder(store)
		params, err := builder.Build(models.LayerPrimary, addressA, 1, Overrides{})
		assert.NoError(t, err)
		assert.Nil(t, params.Nonce)
	})
}

func TestBuilderGasLimitScalesWithBatch(t *testing.T) {
	store := newFakeStore()
	builder := NewBuilder(store)

	single, err := builder.Build(models.LayerPrimary, addressA, 1, Overrides{})
	assert.NoError(t, err)

	batch, err := builder.Build(models.LayerPrimary, addressA, 25, Overrides{})
	assert.NoError(t, err)

	assert.Equal(t, uint64(258923), single.GasLimit)
	assert.Greater(t, batch.GasLimit, single.GasLimit)
}
