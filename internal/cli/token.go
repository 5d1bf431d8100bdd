package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cragmatch/cragmatch/internal/auth"
)

func newTokenCommand(a *app) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin bearer token for the catalog API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}

			if ttl == 0 {
				ttl = a.cfg.Auth.TokenTTL
			}
			tokens := auth.NewJWTService(auth.JWTConfig{
				SigningKey: a.cfg.Auth.SigningKey,
				Issuer:     a.cfg.Auth.Issuer,
				Audience:   a.cfg.Auth.Audience,
				TokenTTL:   ttl,
			})

			token, expiresAt, err := tokens.GenerateToken(subject)
			if err != nil {
				if errors.Is(err, auth.ErrNoSigningKey) {
					return errors.New("auth.signing_key is not configured (set CRAGMATCH_AUTH__SIGNING_KEY)")
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.UTC().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "who the token is issued to")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default from config)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
