package main

import (
	"github.com/Heidric/shop-admin/internal/config"
	"github.com/Heidric/shop-admin/internal/validation"
	"github.com/pkg/errors"
)

// checkAdmin holds the bootstrap admin to the same rules a user edit does,
// so the account can later be saved through the API. An empty password is
// allowed: one is generated.
func checkAdmin(rules *validation.Engine, admin *config.Admin) error {
	type check struct{ env, msg string }

	checks := []check{
		{"ADMIN_USERNAME", rules.Username(admin.Username)},
		{"ADMIN_EMAIL", rules.Email(admin.Email)},
	}
	if admin.Password != "" {
		checks = append(checks, check{"ADMIN_PASSWORD", rules.Password(admin.Password)})
	}

	for _, c := range checks {
		if c.msg != "" {
			return errors.Errorf("%s rejected: %s", c.env, c.msg)
		}
	}
	return nil
}
