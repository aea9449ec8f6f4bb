package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	mware "github.com/sudo-init-do/bazaar/internal/middleware"
)

var mintFlags struct {
	subject string
	role    string
	ttl     time.Duration
}

// mintTokenCmd signs an operator token with JWT_SECRET
var mintTokenCmd = &cobra.Command{
	Use:   "mint-token",
	Short: "Sign a token for the admin API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			return errors.New("JWT_SECRET is not set")
		}
		if mintFlags.subject == "" {
			return errors.New("--sub is required")
		}
		token, err := mware.SignToken([]byte(secret), mintFlags.subject, mintFlags.role, mintFlags.ttl)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

func init() {
	mintTokenCmd.Flags().StringVar(&mintFlags.subject, "sub", "", "User id placed in the token")
	mintTokenCmd.Flags().StringVar(&mintFlags.role, "role", "admin", "Role placed in the token")
	mintTokenCmd.Flags().DurationVar(&mintFlags.ttl, "ttl", time.Hour, "Token lifetime")
}
