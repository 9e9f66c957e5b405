package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash for storage in users.password_hash.
// The cost comes from configuration so operators can raise it as
// hardware improves; values outside bcrypt's supported range fall back
// to the library default.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored hash. A
// malformed or truncated hash simply fails verification; no error
// detail leaks to the caller.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
