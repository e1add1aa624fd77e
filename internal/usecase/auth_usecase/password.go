package auth

import "golang.org/x/crypto/bcrypt"

// bcrypt only reads the first 72 bytes; longer input is cut here so it never errors.
const maxPasswordBytes = 72

const DefaultBcryptCost = 12

// BcryptPasswordHasher hashes and verifies passwords.
// Two passwords that share their first 72 bytes verify against each other's hash.
type BcryptPasswordHasher struct {
	cost int
}

func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(truncate(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify is false for a wrong password and for a malformed hash.
func (h *BcryptPasswordHasher) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), truncate(plain)) == nil
}

func truncate(plain string) []byte {
	b := []byte(plain)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
