package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is the fixed cost factor for stored password hashes.
const bcryptCost = 12

// HashPassword returns a one-way salted hash of password. The raw password is
// never stored.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. bcrypt's own compare
// is used, so the comparison does not leak where the mismatch occurred.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
