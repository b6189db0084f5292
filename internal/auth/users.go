package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// UserStore is the known-identity set with stored password hashes.
type UserStore interface {
	PasswordHash(username string) ([]byte, bool)
	Exists(username string) bool
}

// Users is an immutable in-memory UserStore.
type Users struct {
	hashes map[string][]byte
}

// UserRecord is one entry of a users file. A plain Password is hashed on
// load and is meant for local fixtures only.
type UserRecord struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
	Password     string `yaml:"password"`
}

func NewUsers(records []UserRecord) (*Users, error) {
	hashes := make(map[string][]byte, len(records))
	for _, r := range records {
		name := strings.TrimSpace(r.Username)
		if name == "" {
			return nil, fmt.Errorf("user without username")
		}
		if _, dup := hashes[name]; dup {
			return nil, fmt.Errorf("duplicate user %q", name)
		}

		switch {
		case r.PasswordHash != "":
			if _, err := bcrypt.Cost([]byte(r.PasswordHash)); err != nil {
				return nil, fmt.Errorf("user %q: invalid password hash: %w", name, err)
			}
			hashes[name] = []byte(r.PasswordHash)
		case r.Password != "":
			hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("user %q: hash password: %w", name, err)
			}
			hashes[name] = hash
		default:
			return nil, fmt.Errorf("user %q has no password", name)
		}
	}
	return &Users{hashes: hashes}, nil
}

// ParseUsers reads a YAML list of UserRecord.
func ParseUsers(data []byte) (*Users, error) {
	var records []UserRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshal users: %w", err)
	}
	return NewUsers(records)
}

func (u *Users) PasswordHash(username string) ([]byte, bool) {
	h, ok := u.hashes[username]
	return h, ok
}

func (u *Users) Exists(username string) bool {
	_, ok := u.hashes[username]
	return ok
}

func (u *Users) Len() int {
	return len(u.hashes)
}
