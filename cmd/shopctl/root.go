package main

import (
	"fmt"
	"os"

	"github.com/Heidric/shop-admin/internal/validation"
	"github.com/Heidric/shop-admin/pkg/security"
	"github.com/spf13/cobra"
)

type options struct {
	rules string
}

func (o *options) engine() (*validation.Engine, error) {
	rs, err := validation.LoadRuleset(o.rules)
	if err != nil {
		return nil, err
	}
	return validation.NewEngine(rs), nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "shopctl",
		Short:         "Shop admin developer tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultRules := os.Getenv("VALIDATION_RULES")
	if defaultRules == "" {
		defaultRules = validation.Lenient.Name
	}
	cmd.PersistentFlags().StringVar(&opts.rules, "rules", defaultRules, "ruleset profile name or YAML file")

	cmd.AddCommand(
		newValidateCmd(opts),
		newRulesetCmd(opts),
		newSeedCmd(),
		newSecretCmd(),
	)
	return cmd
}

func newRulesetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ruleset",
		Short: "Print the active ruleset as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.engine()
			if err != nil {
				return err
			}
			out, err := e.Ruleset().YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

// newSecretCmd prints a value suitable for JWT_SECRET.
func newSecretCmd() *cobra.Command {
	var length int

	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Generate a random signing secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := security.GenerateSecret(length)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), secret)
			return err
		},
	}

	cmd.Flags().IntVar(&length, "length", 32, "secret length")
	return cmd
}
