package mail_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/mailsift/internal/google"
	"github.com/teemow/mailsift/internal/instrumentation"
	"github.com/teemow/mailsift/internal/mailbox"
	"github.com/teemow/mailsift/internal/pipeline"
	"github.com/teemow/mailsift/internal/secrets"
)

// RegisterMailTools registers the mail_fetch and mail_classify tools
// with the MCP server.
func RegisterMailTools(s *mcpserver.MCPServer, p *pipeline.Pipeline, metrics *instrumentation.Metrics) error {
	fetchTool := mcp.NewTool("mail_fetch",
		mcp.WithDescription("Fetch recent emails (subject, sender, snippet) from the user's Gmail inbox"),
		mcp.WithString("accessToken",
			mcp.Description("Google OAuth access token. Omit to use the locally stored token from the auth command."),
		),
		mcp.WithNumber("count",
			mcp.Description("Number of emails to fetch (default: 10, max: 100)"),
		),
	)

	s.AddTool(fetchTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := handleMailFetch(ctx, request, p)
		recordInvocation(ctx, metrics, "mail_fetch", result)
		return result, err
	})

	classifyTool := mcp.NewTool("mail_classify",
		mcp.WithDescription("Classify emails into Important, Promotions, Social, Marketing, Spam or General"),
		mcp.WithArray("emails",
			mcp.Required(),
			mcp.Description("Emails to classify, each with id, subject, from and snippet fields"),
		),
		mcp.WithString("apiKey",
			mcp.Description("Gemini API key. Omit to use the stored or environment-configured key."),
		),
	)

	s.AddTool(classifyTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := handleMailClassify(ctx, request, p)
		recordInvocation(ctx, metrics, "mail_classify", result)
		return result, err
	})

	return nil
}

func recordInvocation(ctx context.Context, metrics *instrumentation.Metrics, tool string, result *mcp.CallToolResult) {
	status := instrumentation.StatusSuccess
	if result != nil && result.IsError {
		status = instrumentation.StatusError
	}
	metrics.RecordToolInvocation(ctx, tool, status)
}

func handleMailFetch(ctx context.Context, request mcp.CallToolRequest, p *pipeline.Pipeline) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	token, _ := args["accessToken"].(string)
	if token == "" {
		var err error
		token, err = google.AccessToken(ctx)
		if err != nil {
			if url, urlErr := google.GetAuthURL(); urlErr == nil {
				return mcp.NewToolResultError(fmt.Sprintf(
					"No Google OAuth token available. Visit %s to authorize, then save the code with the auth command.", url)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("No Google OAuth token available: %v", err)), nil
		}
	}

	count := int64(mailbox.DefaultCount)
	if countVal, ok := args["count"].(float64); ok {
		count = int64(countVal)
	}

	result, err := p.Retrieve(ctx, token, count)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch emails: %v", err)), nil
	}

	return jsonToolResult(result)
}

func handleMailClassify(ctx context.Context, request mcp.CallToolRequest, p *pipeline.Pipeline) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	msgs, err := parseMessages(args["emails"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	apiKey, _ := args["apiKey"].(string)
	if apiKey == "" {
		var store secrets.Store
		if ks, err := secrets.OpenKeyringStore(); err == nil {
			store = ks
		}
		apiKey = secrets.ResolveAPIKey("", store)
	}

	classified, err := p.Classify(ctx, msgs, apiKey)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to classify emails: %v", err)), nil
	}

	return jsonToolResult(classified)
}

// parseMessages converts the raw emails argument into messages by
// round-tripping through JSON, so the tool accepts exactly the shape
// the fetch tool produces.
func parseMessages(raw any) ([]mailbox.Message, error) {
	if raw == nil {
		return nil, fmt.Errorf("emails is required")
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid emails argument: %v", err)
	}

	var msgs []mailbox.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("emails must be an array of email objects: %v", err)
	}
	return msgs, nil
}

func jsonToolResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
