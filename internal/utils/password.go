package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash from an account's plain
// credential.  The cost comes from configuration so deployments can
// trade hashing time against hardware.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether the plain credential matches the
// stored bcrypt hash.  The comparison is constant time.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
