package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
	httpserver "github.com/mentoria-hub/mentoria-hub/internal/interface/http"
)

var (
	tokenSubject string
	tokenRole    string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for an admin or mentor",
	Long: `Sign an HS256 bearer token with JWT_SECRET. For mentors the subject
must be the mentor id.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer log.Sync()

		ttl := tokenTTL
		if ttl == 0 {
			ttl = cfg.Auth.TokenTTL
		}

		auth := httpserver.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
		tok, err := auth.Sign(shared.Actor{ID: tokenSubject, Role: shared.Role(tokenRole)}, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "sub", "", "Subject: mentor id or operator id")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(shared.RoleMentor), "Role: admin or mentor")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (default JWT_TOKEN_TTL)")
	_ = tokenCmd.MarkFlagRequired("sub")
}
