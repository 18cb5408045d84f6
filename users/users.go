package users

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for stored password digests.
const PasswordCost = 10

// MaxPasswordBytes is the longest prefix bcrypt digests. Longer passwords are
// truncated to it on both hashing and checking.
const MaxPasswordBytes = 72

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type User struct {
	ID           string `json:"id"`    // Unique identifier for the user
	Email        string `json:"email"` // Unique login email
	PasswordHash string `json:"-"`     // Hashed version of the user's password - never serialize
}

// Identity is the public part of a user carried in tokens and responses.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email}
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	return b
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(passwordBytes(password), PasswordCost)
	return string(bytes), err
}

// CheckPasswordHash reports whether hash was produced from password. A
// malformed hash never matches.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), passwordBytes(password))
	return err == nil
}

// CheckPassword checks a password against the user's stored hash
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}
