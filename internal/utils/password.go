package utils

import "golang.org/x/crypto/bcrypt"

// VerifyPassword safely compares bcrypt hash and plain password.
// Staff password hashes are provisioned out of band; this service
// only ever verifies them at login.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
