package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/api/gmail/v1"

	"github.com/gmailtools/gmail-reader-mcp/internal/mail"
)

const defaultMaxResults = 5

// ReadEmailsRequest selects one page of the inbox.
type ReadEmailsRequest struct {
	MaxResults int64  `json:"max_results,omitempty" jsonschema:"number of emails to fetch, defaults to 5"`
	PageToken  string `json:"page_token,omitempty" jsonschema:"page token to fetch the next batch"`
}

// ReadEmailsResponse contains email summaries and a continuation token.
type ReadEmailsResponse struct {
	EmailList     []EmailSummary `json:"email_list" jsonschema:"list of email summaries"`
	NextPageToken string         `json:"nextPageToken,omitempty" jsonschema:"token to retrieve more emails if available"`
}

// EmailSummary is one inbox entry: identity plus the headers worth showing.
type EmailSummary struct {
	ID      string `json:"id" jsonschema:"message ID"`
	Subject string `json:"subject" jsonschema:"email subject"`
	Sender  string `json:"sender" jsonschema:"raw From header"`
	Snippet string `json:"snippet" jsonschema:"message preview"`
}

type readEmailsSvc interface {
	ListInbox(ctx context.Context, maxResults int64, pageToken string) (*gmail.ListMessagesResponse, error)
	GetMessageMetadata(ctx context.Context, msgID string) (*gmail.Message, error)
}

// NewReadEmails creates the read_emails tool.
func NewReadEmails(svc readEmailsSvc) *ReadEmails {
	return &ReadEmails{svc: svc}
}

// ReadEmails lists recent inbox messages page by page.
type ReadEmails struct {
	svc readEmailsSvc
}

// ReadEmails fetches one inbox page and a metadata summary per message.
// Unlike the draft tools, listing failures propagate to the caller.
func (t *ReadEmails) ReadEmails(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReadEmailsRequest,
) (*mcp.CallToolResult, ReadEmailsResponse, error) {
	maxResults := input.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	page, err := t.svc.ListInbox(ctx, maxResults, input.PageToken)
	if err != nil {
		return nil, ReadEmailsResponse{}, fmt.Errorf("svc.ListInbox failed: %w", err)
	}

	emails := make([]EmailSummary, 0, len(page.Messages))

	for _, ref := range page.Messages {
		msg, err := t.svc.GetMessageMetadata(ctx, ref.Id)
		if err != nil {
			return nil, ReadEmailsResponse{}, fmt.Errorf("get message %s failed: %w", ref.Id, err)
		}

		snippet := msg.Snippet
		if snippet == "" {
			snippet = mail.NoSnippet
		}

		emails = append(emails, EmailSummary{
			ID:      ref.Id,
			Subject: mail.Header(msg, "Subject", mail.NoSubject),
			Sender:  mail.Header(msg, "From", mail.UnknownSender),
			Snippet: snippet,
		})
	}

	return nil, ReadEmailsResponse{
		EmailList:     emails,
		NextPageToken: page.NextPageToken,
	}, nil
}
