package main

import (
	"fmt"

	"github.com/arnavshah/shiftdock-api/pkg/auth"
	"github.com/arnavshah/shiftdock-api/pkg/config"
	"github.com/arnavshah/shiftdock-api/pkg/database"
	"github.com/arnavshah/shiftdock-api/pkg/store"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		userID string
		phone  string
	)

	cmd := &cobra.Command{
		Use:   "tokengen",
		Short: "Issue a bearer token for an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (userID == "") == (phone == "") {
				return fmt.Errorf("exactly one of --user or --phone is required")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := cfg.Logger()
			st := store.New(database.InitDB(cfg, log))

			if phone != "" {
				u, err := st.Users.GetByPhone(cmd.Context(), phone)
				if err != nil {
					return fmt.Errorf("look up %s: %w", phone, err)
				}
				userID = u.ID
			} else if _, err := st.Users.GetByID(cmd.Context(), userID); err != nil {
				return fmt.Errorf("look up %s: %w", userID, err)
			}

			token, expiresAt, err := auth.NewTokens(cfg.Secret(), cfg.TokenTTL).Issue(userID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token for %s (expires %s):\n%s\n", userID, expiresAt.Format("2006-01-02 15:04 MST"), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&phone, "phone", "", "registered phone number")
	return cmd
}
