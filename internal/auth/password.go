package auth

import "golang.org/x/crypto/bcrypt"

// placeholderHash is compared against when the account does not exist so that
// unknown emails and wrong passwords take comparable time.
var placeholderHash, _ = bcrypt.GenerateFromPassword([]byte("placeholder-password"), bcrypt.MinCost)

// HashPassword hashes a plaintext password. Out of range costs fall back to bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// BurnCompare spends one bcrypt comparison without a real account.
func BurnCompare(plain string) {
	_ = bcrypt.CompareHashAndPassword(placeholderHash, []byte(plain))
}
