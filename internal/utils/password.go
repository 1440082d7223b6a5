package utils

import "golang.org/x/crypto/bcrypt" // adaptive password hashing

// HashPassword hashes a plaintext password with bcrypt at the given cost.
// The cost comes from configuration so environments can trade hashing
// latency against brute-force resistance.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether the plaintext matches the stored bcrypt
// hash.  A malformed hash and a wrong password both answer false.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
