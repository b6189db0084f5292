package usecase

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/nguyentranbao-ct/product-gateway/internal/auth"
	"github.com/nguyentranbao-ct/product-gateway/pkg/logger"
)

//go:embed default_users.yaml
var defaultUsersData []byte

// LoadUsers reads the known-identity set from path, or from the built-in
// fixture when path is empty.
func LoadUsers(path string) (*auth.Users, error) {
	data := defaultUsersData
	source := "embedded"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read users file: %w", err)
		}
		data = b
		source = path
	}

	users, err := auth.ParseUsers(data)
	if err != nil {
		return nil, fmt.Errorf("parse users from %s: %w", source, err)
	}

	logger.MustNamed("users").Infow("Loaded users", "source", source, "count", users.Len())
	return users, nil
}
