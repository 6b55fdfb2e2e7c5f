package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/nordfjell/anbud/internal/auth"
	"github.com/nordfjell/anbud/internal/config"
)

type TokenCmd struct {
	Subject string        `help:"Principal identifier" required:""`
	Email   string        `help:"Principal email"`
	Name    string        `help:"Principal display name"`
	TTL     time.Duration `help:"Token lifetime" default:"24h"`
	Secret  string        `help:"Session signing secret, defaults to the configured one" env:"ANBUD_SESSION_SECRET"`
}

func (t *TokenCmd) Run(ctx context.Context, globals *Globals) error {
	secret := t.Secret
	if secret == "" {
		cfg, err := config.Load(globals.Config)
		if err != nil {
			return err
		}
		secret = cfg.Session.Secret
	}

	token, err := auth.IssueSession(secret, auth.Principal{
		ID:    t.Subject,
		Email: t.Email,
		Name:  t.Name,
	}, t.TTL)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
