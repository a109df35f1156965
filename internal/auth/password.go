package auth

import "golang.org/x/crypto/bcrypt"

// CredentialVerifier checks plaintext passwords against stored bcrypt
// hashes and produces new hashes with the configured cost.
type CredentialVerifier struct {
	cost int
}

// NewCredentialVerifier builds a verifier with the given bcrypt cost.
func NewCredentialVerifier(cost int) *CredentialVerifier {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &CredentialVerifier{cost: cost}
}

// Hash hashes a plaintext password.
func (v *CredentialVerifier) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), v.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Matches reports whether the plaintext password matches the stored hash.
func (v *CredentialVerifier) Matches(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
