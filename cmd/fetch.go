package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/mailsift/internal/google"
	"github.com/teemow/mailsift/internal/instrumentation"
	"github.com/teemow/mailsift/internal/logging"
	"github.com/teemow/mailsift/internal/mailbox"
)

func newFetchCmd() *cobra.Command {
	var (
		count       int64
		accessToken string
		debug       bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch recent emails from the Gmail inbox",
		Long: `Fetch the most recent emails (subject, sender, snippet) from the
authenticated Gmail inbox and print them as JSON.

Uses the token stored by the auth command unless --access-token is
given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.Setup(os.Stderr, logging.Options{Debug: debug})
			ctx := cmd.Context()

			token := accessToken
			if token == "" {
				var err error
				token, err = google.AccessToken(ctx)
				if err != nil {
					return fmt.Errorf("no Google access token, run 'mailsift auth' first: %w", err)
				}
			}

			p := buildPipeline(logger, &instrumentation.Metrics{})
			result, err := p.Retrieve(ctx, token, count)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().Int64Var(&count, "count", mailbox.DefaultCount, "Number of emails to fetch (max: 100)")
	cmd.Flags().StringVar(&accessToken, "access-token", "", "Google OAuth access token. Defaults to the stored token.")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	return cmd
}
