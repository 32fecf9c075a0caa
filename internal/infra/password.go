package infra

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 12

// BcryptHasher hashes and checks passwords with bcrypt.
type BcryptHasher struct{ cost int }

func NewBcryptHasher() *BcryptHasher { return &BcryptHasher{cost: bcryptCost} }

func (h *BcryptHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	return string(b), err
}

func (h *BcryptHasher) Verificar(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
