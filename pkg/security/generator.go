// Package security generates random secrets from unambiguous alphabets.
package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Groups exclude look-alike characters (0/O, 1/l/I, 5/S, ...).
const (
	Uppercase = "ACDEFGHJKMPQRTWXYZ"
	Lowercase = "acdefghjkpqrtwxyz"
	Digits    = "23479"
	Special   = "!@#%^&*_+-={}.,<>?"
)

func randomIndex(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("source is empty")
	}
	i, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(i.Int64()), nil
}

func shuffle(data []byte) error {
	for i := len(data) - 1; i > 0; i-- {
		j, err := randomIndex(i + 1)
		if err != nil {
			return err
		}
		data[i], data[j] = data[j], data[i]
	}
	return nil
}

// Generate returns a string of the given length drawn from the union of the
// groups, with at least one character of every group.
func Generate(length int, groups ...string) (string, error) {
	if len(groups) == 0 {
		return "", fmt.Errorf("no character groups")
	}
	if length < len(groups) {
		return "", fmt.Errorf("length has to be at least %d", len(groups))
	}

	all := strings.Join(groups, "")
	result := make([]byte, 0, length)
	for _, group := range groups {
		i, err := randomIndex(len(group))
		if err != nil {
			return "", err
		}
		result = append(result, group[i])
	}
	for len(result) < length {
		i, err := randomIndex(len(all))
		if err != nil {
			return "", err
		}
		result = append(result, all[i])
	}
	if err := shuffle(result); err != nil {
		return "", err
	}
	return string(result), nil
}

// GeneratePassword mixes letters and digits, which every password policy
// of the shop accepts.
func GeneratePassword(length int) (string, error) {
	return Generate(length, Uppercase, Lowercase, Digits)
}

// GenerateSecret adds symbols, for values nobody has to type.
func GenerateSecret(length int) (string, error) {
	return Generate(length, Uppercase, Lowercase, Digits, Special)
}
