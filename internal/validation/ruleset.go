package validation

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type UsernamePolicy string

const (
	// UsernameLength checks only presence and length.
	UsernameLength UsernamePolicy = "length"
	// UsernameCharset also restricts usernames to letters, digits and ._-
	UsernameCharset UsernamePolicy = "charset"
)

// Ruleset is a named validation profile. An Engine is bound to exactly one.
type Ruleset struct {
	Name                 string         `yaml:"name" json:"name"`
	Username             UsernamePolicy `yaml:"username" json:"username"`
	PasswordMaxLength    int            `yaml:"passwordMaxLength" json:"passwordMaxLength"`
	ProductNameMinLength int            `yaml:"productNameMinLength" json:"productNameMinLength"`
	StrictNumbers        bool           `yaml:"strictNumbers" json:"strictNumbers"`
}

var (
	Lenient = Ruleset{
		Name:                 "lenient",
		Username:             UsernameLength,
		PasswordMaxLength:    20,
		ProductNameMinLength: 2,
	}

	Strict = Ruleset{
		Name:                 "strict",
		Username:             UsernameCharset,
		PasswordMaxLength:    100,
		ProductNameMinLength: 3,
		StrictNumbers:        true,
	}
)

var ErrUnknownRuleset = errors.New("unknown ruleset")

// Profile returns a built-in ruleset by name.
func Profile(name string) (Ruleset, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Lenient.Name:
		return Lenient, nil
	case Strict.Name:
		return Strict, nil
	}
	return Ruleset{}, errors.Wrapf(ErrUnknownRuleset, "%q", name)
}

// LoadRuleset resolves ref as a built-in profile name first and as a YAML
// file path otherwise. Keys missing from the file inherit from the profile
// named in its "extends" key, or from Lenient.
func LoadRuleset(ref string) (Ruleset, error) {
	if rs, err := Profile(ref); err == nil {
		return rs, nil
	}

	raw, err := os.ReadFile(ref)
	if err != nil {
		return Ruleset{}, errors.Wrapf(ErrUnknownRuleset, "%q", ref)
	}

	return ParseRuleset(raw)
}

// ParseRuleset reads a ruleset document. It must carry its own name so it
// is never reported as the profile it extends.
func ParseRuleset(raw []byte) (Ruleset, error) {
	var head struct {
		Name    string `yaml:"name"`
		Extends string `yaml:"extends"`
	}
	if err := yaml.Unmarshal(raw, &head); err != nil {
		return Ruleset{}, errors.Wrap(err, "parse ruleset")
	}
	if strings.TrimSpace(head.Name) == "" {
		return Ruleset{}, errors.New("ruleset name is required")
	}

	rs, err := Profile(head.Extends)
	if err != nil {
		return Ruleset{}, err
	}
	if err := yaml.Unmarshal(raw, &rs); err != nil {
		return Ruleset{}, errors.Wrap(err, "parse ruleset")
	}

	if err := rs.check(); err != nil {
		return Ruleset{}, err
	}
	return rs, nil
}

func (rs Ruleset) check() error {
	if rs.Name == "" {
		return errors.New("ruleset name is empty")
	}
	switch rs.Username {
	case UsernameLength, UsernameCharset:
	default:
		return errors.Errorf("ruleset %q: unknown username policy %q", rs.Name, rs.Username)
	}
	if rs.PasswordMaxLength < minPasswordLength {
		return errors.Errorf("ruleset %q: passwordMaxLength must be at least %d", rs.Name, minPasswordLength)
	}
	if rs.ProductNameMinLength < 1 || rs.ProductNameMinLength > maxProductNameLength {
		return errors.Errorf("ruleset %q: productNameMinLength out of range", rs.Name)
	}
	return nil
}

func (rs Ruleset) YAML() ([]byte, error) {
	return yaml.Marshal(rs)
}
