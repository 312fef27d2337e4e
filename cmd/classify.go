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
	"github.com/teemow/mailsift/internal/secrets"
)

func newClassifyCmd() *cobra.Command {
	var (
		count       int64
		accessToken string
		apiKey      string
		debug       bool
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Fetch recent emails and classify them into inbox categories",
		Long: `Fetch the most recent emails from the Gmail inbox, classify each one
into Important, Promotions, Social, Marketing, Spam or General using
Gemini, and print the result as JSON.

The Gemini API key is resolved from --api-key, the system keyring
(mailsift key set), or the GEMINI_API_KEY environment variable.`,
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

			var store secrets.Store
			if ks, err := secrets.OpenKeyringStore(); err == nil {
				store = ks
			} else {
				logger.Debug("keyring unavailable", logging.Err(err))
			}
			key := secrets.ResolveAPIKey(apiKey, store)
			if key == "" {
				return fmt.Errorf("no Gemini API key configured, use --api-key, 'mailsift key set' or GEMINI_API_KEY")
			}

			p := buildPipeline(logger, &instrumentation.Metrics{})
			result, err := p.Retrieve(ctx, token, count)
			if err != nil {
				return err
			}

			classified, err := p.Classify(ctx, result.Messages, key)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(classified)
		},
	}

	cmd.Flags().Int64Var(&count, "count", mailbox.DefaultCount, "Number of emails to fetch (max: 100)")
	cmd.Flags().StringVar(&accessToken, "access-token", "", "Google OAuth access token. Defaults to the stored token.")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Gemini API key. Defaults to the stored or environment-configured key.")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	return cmd
}
