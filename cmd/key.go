package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/mailsift/internal/secrets"
)

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the stored Gemini API key",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <api-key>",
		Short: "Store the Gemini API key in the system keyring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := secrets.OpenKeyringStore()
			if err != nil {
				return err
			}
			if err := store.Set(secrets.KeyGeminiAPIKey, args[0]); err != nil {
				return err
			}
			fmt.Println("Gemini API key stored.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove",
		Short: "Remove the Gemini API key from the system keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := secrets.OpenKeyringStore()
			if err != nil {
				return err
			}
			if err := store.Remove(secrets.KeyGeminiAPIKey); err != nil {
				return err
			}
			fmt.Println("Gemini API key removed.")
			return nil
		},
	})

	return cmd
}
