package security

import (
	"fmt"
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name   string
		length int
		groups []string
		valid  bool
	}{
		{"one per group", 3, []string{Uppercase, Lowercase, Digits}, true},
		{"long", 32, []string{Uppercase, Digits}, true},
		{"shorter than groups", 2, []string{Uppercase, Lowercase, Digits}, false},
		{"no groups", 8, nil, false},
		{"empty group", 4, []string{Uppercase, ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Generate(tt.length, tt.groups...)
			if !tt.valid {
				if err == nil {
					t.Errorf("Expected error, got %q", result)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if len(result) != tt.length {
				t.Errorf("Expected length %d, got %d", tt.length, len(result))
			}
			for _, group := range tt.groups {
				if !strings.ContainsAny(result, group) {
					t.Errorf("Missing a character of %q in %q", group, result)
				}
			}
		})
	}
}

func TestGeneratePasswordAlphabet(t *testing.T) {
	allowed := Uppercase + Lowercase + Digits
	ambiguous := "0O1Il5Ss$6b8BNUVuvnm()[]|;:"

	for i := 0; i < 100; i++ {
		result, err := GeneratePassword(16)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		for _, c := range result {
			if !strings.ContainsRune(allowed, c) {
				t.Fatalf("Unexpected character %q in %q", c, result)
			}
			if strings.ContainsRune(ambiguous, c) {
				t.Fatalf("Ambiguous character %q in %q", c, result)
			}
		}
	}
}

func TestGenerateSecretUsesSymbols(t *testing.T) {
	result, err := GenerateSecret(24)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.ContainsAny(result, Special) {
		t.Errorf("Expected a symbol in %q", result)
	}
}

func TestGenerateRandomness(t *testing.T) {
	const iterations = 100
	seen := make(map[string]bool)
	for i := 0; i < iterations; i++ {
		result, err := GeneratePassword(12)
		if err != nil {
			t.Fatal(err)
		}
		if seen[result] {
			t.Errorf("Generated duplicate string: %s", result)
		}
		seen[result] = true
	}
}

func TestShuffleKeepsBytes(t *testing.T) {
	data := []byte("ABCD1234")
	if err := shuffle(data); err != nil {
		t.Fatal(err)
	}
	for _, c := range "ABCD1234" {
		if !strings.ContainsRune(string(data), c) {
			t.Errorf("Character %q missing after shuffle", c)
		}
	}
}

func BenchmarkGeneratePassword(b *testing.B) {
	for _, length := range []int{8, 16, 32} {
		b.Run(fmt.Sprintf("length_%d", length), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := GeneratePassword(length); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
