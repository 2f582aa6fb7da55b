package validation

import (
	"bytes"
	"encoding/json"
)

// Errors maps a field name to its message. Valid fields are never present.
type Errors map[string]string

func (errs Errors) check(field, msg string) {
	if msg != "" {
		errs[field] = msg
	}
}

func (errs Errors) orNil() Errors {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ProductForm is the canonical product input. Absent JSON keys decode to
// missing values and are reported as required.
type ProductForm struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       Value  `json:"price"`
	Quantity    Value  `json:"quantity"`
	Category    string `json:"category"`
}

type RegistrationForm struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// textOf reads a text field leniently. null and absent keys are "", strings
// are unquoted and any other token (number, boolean, object) is kept as its
// raw JSON so the field validator reports it.
func textOf(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

// UnmarshalJSON only fails when the document is not a JSON object.
func (f *ProductForm) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name        json.RawMessage `json:"name"`
		Description json.RawMessage `json:"description"`
		Price       Value           `json:"price"`
		Quantity    Value           `json:"quantity"`
		Category    json.RawMessage `json:"category"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*f = ProductForm{
		Name:        textOf(raw.Name),
		Description: textOf(raw.Description),
		Price:       raw.Price,
		Quantity:    raw.Quantity,
		Category:    textOf(raw.Category),
	}
	return nil
}

func (f *RegistrationForm) UnmarshalJSON(b []byte) error {
	var raw struct {
		Username        json.RawMessage `json:"username"`
		Email           json.RawMessage `json:"email"`
		Password        json.RawMessage `json:"password"`
		ConfirmPassword json.RawMessage `json:"confirmPassword"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*f = RegistrationForm{
		Username:        textOf(raw.Username),
		Email:           textOf(raw.Email),
		Password:        textOf(raw.Password),
		ConfirmPassword: textOf(raw.ConfirmPassword),
	}
	return nil
}

func (f *LoginForm) UnmarshalJSON(b []byte) error {
	var raw struct {
		Email    json.RawMessage `json:"email"`
		Password json.RawMessage `json:"password"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*f = LoginForm{Email: textOf(raw.Email), Password: textOf(raw.Password)}
	return nil
}

// Fields lists the keys a form reports errors under, by form name.
var Fields = map[string][]string{
	"product":  {"name", "description", "price", "quantity", "category"},
	"register": {"username", "email", "password", "confirmPassword"},
	"login":    {"email", "password"},
}

// ProductForm reports every failing field at once, or nil.
func (e *Engine) ProductForm(f ProductForm) Errors {
	errs := Errors{}
	errs.check("name", e.ProductName(f.Name))
	errs.check("description", e.Description(f.Description))
	errs.check("price", e.Price(f.Price))
	errs.check("quantity", e.Quantity(f.Quantity))
	errs.check("category", e.Category(f.Category))
	return errs.orNil()
}

func (e *Engine) RegistrationForm(f RegistrationForm) Errors {
	errs := Errors{}
	errs.check("username", e.Username(f.Username))
	errs.check("email", e.Email(f.Email))
	errs.check("password", e.Password(f.Password))
	errs.check("confirmPassword", e.ConfirmPassword(f.ConfirmPassword, f.Password))
	return errs.orNil()
}

func (e *Engine) LoginForm(f LoginForm) Errors {
	errs := Errors{}
	errs.check("email", e.Email(f.Email))
	errs.check("password", e.Password(f.Password))
	return errs.orNil()
}
