// Package credential locates the NSRDB API key.
//
// Lookup is an ordered list of sources evaluated by the caller; the first
// source yielding a non-empty key wins. Nothing is cached.
package credential

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// KeyName is the variable and secret-file name holding the key.
const KeyName = "APIKEY"

// ErrNotFound means no source produced a key.
var ErrNotFound = errors.New("api key not found")

// Source is one place a key may live. Lookup returns "" when the source
// has no key; a missing file is not an error.
type Source struct {
	Name   string
	Lookup func() (string, error)
}

// Resolve walks sources in order and returns the first non-empty key
// together with the name of the source that produced it.
func Resolve(sources ...Source) (key, from string, err error) {
	for _, s := range sources {
		v, err := s.Lookup()
		if err != nil {
			return "", "", fmt.Errorf("credential source %s: %w", s.Name, err)
		}
		if v = strings.TrimSpace(v); v != "" {
			return v, s.Name, nil
		}
	}
	return "", "", ErrNotFound
}

// DefaultChain is the lookup order used by the binaries: explicit override,
// mounted secret, environment, key file, then dotenv file.
func DefaultChain(override, secretsDir, keyFile, dotenvPath string) []Source {
	secretPath := ""
	if secretsDir != "" {
		secretPath = filepath.Join(secretsDir, KeyName)
	}
	return []Source{
		Override(override),
		SecretFile(secretPath),
		Env(os.Getenv),
		FirstLine(keyFile),
		DotEnv(dotenvPath),
	}
}

// Override returns a source for a key passed directly, e.g. a CLI flag.
func Override(key string) Source {
	return Source{Name: "override", Lookup: func() (string, error) { return key, nil }}
}

// SecretFile reads a mounted secret whose whole content is the key.
func SecretFile(path string) Source {
	return Source{Name: "secret:" + path, Lookup: func() (string, error) {
		if path == "" {
			return "", nil
		}
		b, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		return string(b), nil
	}}
}

// Env reads KeyName from the environment through getenv.
func Env(getenv func(string) string) Source {
	return Source{Name: "env:" + KeyName, Lookup: func() (string, error) {
		return getenv(KeyName), nil
	}}
}

// FirstLine reads the first line of a plain key file.
func FirstLine(path string) Source {
	return Source{Name: "file:" + path, Lookup: func() (string, error) {
		if path == "" {
			return "", nil
		}
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		defer f.Close()

		sc := bufio.NewScanner(f)
		if sc.Scan() {
			return sc.Text(), nil
		}
		return "", sc.Err()
	}}
}

// DotEnv reads KeyName from a dotenv file without touching the process environment.
func DotEnv(path string) Source {
	return Source{Name: "dotenv:" + path, Lookup: func() (string, error) {
		if path == "" {
			return "", nil
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		vars, err := godotenv.Read(path)
		if err != nil {
			return "", err
		}
		return vars[KeyName], nil
	}}
}

// Fingerprint identifies a key in logs without revealing it: the first
// 12 hex digits of the SHA-256 of the trimmed key.
func Fingerprint(key string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(key)))
	return hex.EncodeToString(sum[:])[:12]
}
