package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/mailsift/internal/google"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth [authorization-code]",
		Short: "Authorize mailsift to read the Gmail inbox",
		Long: `Run without arguments to print the Google authorization URL. Visit
the URL, grant read-only Gmail access, then run the command again with
the authorization code to store the token.

Requires GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET in the environment.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				url, err := google.GetAuthURL()
				if err != nil {
					return err
				}
				fmt.Println("Visit this URL to authorize mailsift:")
				fmt.Println()
				fmt.Println("  " + url)
				fmt.Println()
				fmt.Println("Then run: mailsift auth <authorization-code>")
				return nil
			}

			if err := google.SaveToken(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Authorization successful, token stored.")
			return nil
		},
	}

	return cmd
}
