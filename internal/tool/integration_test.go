package tool_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"

	"github.com/gmailtools/gmail-reader-mcp/internal/auth"
	"github.com/gmailtools/gmail-reader-mcp/internal/gservice"
	"github.com/gmailtools/gmail-reader-mcp/internal/tool"
)

// Walks the inbox page by page over a real Gmail account. Needs a stored
// token, so it is skipped unless GMAIL_TOKEN_FILE is set.
func TestIntegrationReadEmails(t *testing.T) {
	tokenFile := os.Getenv("GMAIL_TOKEN_FILE")
	envFile := os.Getenv("ENV_FILE")

	if tokenFile == "" {
		t.Skip("Skipping integration test: GMAIL_TOKEN_FILE env var must be set")
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			t.Logf("Warning: could not load env file %s: %v", envFile, err)
		}
	}

	clientID := os.Getenv("OAUTH_GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("OAUTH_GOOGLE_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		t.Skip("Skipping integration test: OAUTH_GOOGLE_CLIENT_ID and OAUTH_GOOGLE_CLIENT_SECRET must be set")
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "http://localhost:8080/oauth",
		Scopes:       []string{gmail.GmailReadonlyScope},
	}

	tok, err := auth.NewToken(config, tokenFile)
	require.NoError(t, err, "Failed to create token")

	_, err = tok.OAuthToken()
	require.NoError(t, err, "Token not set - please authenticate first")

	gmailSvc := gservice.NewGmail(config, tok)
	server := tool.NewServer(gmailSvc)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	ctx := context.Background()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer clientSession.Close()

	seen := map[string]bool{}
	pageToken := ""

	for page := 0; page < 3; page++ {
		result, err := clientSession.CallTool(ctx, &mcp.CallToolParams{
			Name: "read_emails",
			Arguments: tool.ReadEmailsRequest{
				MaxResults: 5,
				PageToken:  pageToken,
			},
		})
		require.NoError(t, err)
		require.NotNil(t, result)
		require.False(t, result.IsError, "read_emails failed: %v", result.Content)

		var response tool.ReadEmailsResponse
		require.NoError(t, json.Unmarshal(
			[]byte(result.Content[0].(*mcp.TextContent).Text),
			&response,
		))

		require.LessOrEqual(t, len(response.EmailList), 5)

		for _, email := range response.EmailList {
			require.NotEmpty(t, email.ID)
			require.False(t, seen[email.ID], "pagination returned message %s twice", email.ID)
			seen[email.ID] = true
			t.Logf("[%s] %s — %s", email.ID, email.Sender, email.Subject)
		}

		if response.NextPageToken == "" {
			break
		}
		pageToken = response.NextPageToken
	}

	t.Logf("Enumerated %d inbox messages", len(seen))
}
