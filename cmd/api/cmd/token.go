package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/cityevents/internal/auth"
	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenRoles   string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a signed access token",
	Long: `Print an access token signed with JWT_SECRET, for local testing.

Example:
  cityevents token --sub bob@gmail.com --roles CLIENT,ADMIN`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(tokenSubject) == "" {
			return errors.New("--sub is required")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var roles []string
		for _, r := range strings.Split(tokenRoles, ",") {
			if r = strings.TrimSpace(r); r != "" {
				roles = append(roles, r)
			}
		}

		tok, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAccessTTL).GenerateAccessToken(tokenSubject, roles)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "sub", "", "token subject (user email)")
	tokenCmd.Flags().StringVar(&tokenRoles, "roles", "CLIENT", "comma separated roles")
}
