// Package password implementa accounts.PasswordHasher con bcrypt.
package password

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"pet-adoption/internal/domain/accounts"
)

type BcryptHasher struct {
	cost int
}

var _ accounts.PasswordHasher = (*BcryptHasher)(nil)

// NewBcryptHasher usa bcrypt.DefaultCost si cost está fuera de rango.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "bcrypt")
	}
	return string(b), nil
}

func (h *BcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
