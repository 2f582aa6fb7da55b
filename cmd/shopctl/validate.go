package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/Heidric/shop-admin/internal/validation"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// errInvalid makes the process exit with 1 without printing anything else.
var errInvalid = errors.New("form is invalid")

var forms = map[string]func(e *validation.Engine, raw []byte) (validation.Errors, error){
	"product": func(e *validation.Engine, raw []byte) (validation.Errors, error) {
		var f validation.ProductForm
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, err
		}
		return e.ProductForm(f), nil
	},
	"register": func(e *validation.Engine, raw []byte) (validation.Errors, error) {
		var f validation.RegistrationForm
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, err
		}
		return e.RegistrationForm(f), nil
	},
	"login": func(e *validation.Engine, raw []byte) (validation.Errors, error) {
		var f validation.LoginForm
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, err
		}
		return e.LoginForm(f), nil
	},
}

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "validate product|register|login [file]",
		Short:     "Validate a JSON form document read from a file or stdin",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"product", "register", "login"},
		RunE: func(cmd *cobra.Command, args []string) error {
			check, ok := forms[args[0]]
			if !ok {
				return errors.Errorf("unknown form %q", args[0])
			}

			e, err := opts.engine()
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 2 && args[1] != "-" {
				f, err := os.Open(args[1])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			raw, err := io.ReadAll(in)
			if err != nil {
				return errors.Wrap(err, "read input")
			}

			errs, err := check(e, raw)
			if err != nil {
				return errors.Wrap(err, "parse input")
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if errs == nil {
				errs = validation.Errors{}
			}
			if err := enc.Encode(errs); err != nil {
				return err
			}
			if len(errs) > 0 {
				return errInvalid
			}
			return nil
		},
	}
}
