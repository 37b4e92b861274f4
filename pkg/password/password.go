// Package password envuelve bcrypt para el hash adaptativo con sal de contraseñas.
package password

import (
	"crypto/rand"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost factor de trabajo por defecto (2^12 rondas).
const DefaultCost = 12

// Hasher genera hashes bcrypt con un costo fijo.
type Hasher struct {
	cost int

	decoyOnce sync.Once
	decoy     string
}

// NewHasher construye el hasher. Un costo fuera de rango usa DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Cost devuelve el factor de trabajo configurado.
func (h *Hasher) Cost() int { return h.cost }

// Decoy hash de un secreto aleatorio al costo del hasher. Se calcula una vez.
// Comparar contra él cuesta lo mismo que contra un hash real y nunca coincide.
func (h *Hasher) Decoy() string {
	h.decoyOnce.Do(func() {
		secret := rand.Text()
		hash, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
		if err != nil {
			return
		}
		h.decoy = string(hash)
	})
	return h.decoy
}

// Hash produce un hash bcrypt con sal aleatoria embebida.
// Solo falla con contraseñas de más de 72 bytes.
func (h *Hasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(hash), nil
}

// Verify recalcula el hash con la sal y el costo embebidos en hash.
// Devuelve false ante cualquier discrepancia o hash malformado.
func Verify(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
