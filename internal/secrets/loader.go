// Package secrets resolves API keys from files, inline configuration or the environment.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotConfigured is returned when no source provides a value.
var ErrNotConfigured = errors.New("not configured")

// Source lists the places a secret may come from. File wins over Value, Value wins over Env.
type Source struct {
	Name  string
	Value string
	File  string
	Env   string
}

type lookup func() (value string, found bool, err error)

// Load resolves the secret described by src and trims surrounding whitespace.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	for _, next := range []lookup{src.fromFile(name), src.inline, src.fromEnv} {
		secret, found, err := next()
		if err != nil {
			return "", err
		}
		if found {
			return secret, nil
		}
	}
	return "", fmt.Errorf("%s is %w", name, ErrNotConfigured)
}

// fromFile treats an empty key file as a misconfiguration rather than falling through.
func (s Source) fromFile(name string) lookup {
	return func() (string, bool, error) {
		path := strings.TrimSpace(s.File)
		if path == "" {
			return "", false, nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", false, fmt.Errorf("read %s from %q: %w", name, path, err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", false, fmt.Errorf("%s file %q is empty", name, path)
		}
		return secret, true, nil
	}
}

func (s Source) inline() (string, bool, error) {
	secret := strings.TrimSpace(s.Value)
	return secret, secret != "", nil
}

func (s Source) fromEnv() (string, bool, error) {
	key := strings.TrimSpace(s.Env)
	if key == "" {
		return "", false, nil
	}
	secret := strings.TrimSpace(os.Getenv(key))
	return secret, secret != "", nil
}
