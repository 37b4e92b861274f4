package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/happyshop-api/pkg/password"
)

func TestNewHasher_CostoFueraDeRangoUsaDefault(t *testing.T) {
	assert.Equal(t, password.DefaultCost, password.NewHasher(0).Cost())
	assert.Equal(t, password.DefaultCost, password.NewHasher(bcrypt.MaxCost+1).Cost())
	assert.Equal(t, bcrypt.MinCost, password.NewHasher(bcrypt.MinCost).Cost())
}

func TestHash_SalDistintaMismoPassword(t *testing.T) {
	h := password.NewHasher(bcrypt.MinCost)
	a, err := h.Hash("customer123")
	require.NoError(t, err)
	b, err := h.Hash("customer123")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "cada hash lleva su propia sal")
	assert.True(t, password.Verify(a, "customer123"))
	assert.True(t, password.Verify(b, "customer123"))
}

func TestHash_CostoEmbebido(t *testing.T) {
	hash, err := password.NewHasher(bcrypt.MinCost).Hash("x")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestHash_MasDe72Bytes_Error(t *testing.T) {
	_, err := password.NewHasher(bcrypt.MinCost).Hash(strings.Repeat("a", 73))
	assert.Error(t, err)
}

func TestVerify_Rechaza(t *testing.T) {
	hash, err := password.NewHasher(bcrypt.MinCost).Hash("admin123")
	require.NoError(t, err)

	assert.False(t, password.Verify(hash, "admin124"))
	assert.False(t, password.Verify("", "admin123"))
	assert.False(t, password.Verify("no-es-bcrypt", "admin123"))
}

func TestDecoy_MismoCostoYEstable(t *testing.T) {
	h := password.NewHasher(bcrypt.MinCost + 1)
	decoy := h.Decoy()
	require.NotEmpty(t, decoy)
	assert.Equal(t, decoy, h.Decoy(), "se calcula una sola vez")

	cost, err := bcrypt.Cost([]byte(decoy))
	require.NoError(t, err)
	assert.Equal(t, h.Cost(), cost)

	assert.False(t, password.Verify(decoy, ""))
	assert.False(t, password.Verify(decoy, "admin123"))
}
