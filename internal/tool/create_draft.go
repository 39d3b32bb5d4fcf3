package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/api/gmail/v1"

	"github.com/gmailtools/gmail-reader-mcp/internal/mail"
)

// CreateReplyDraftRequest identifies the message to reply to.
type CreateReplyDraftRequest struct {
	EmailID   string `json:"email_id" jsonschema:"ID of the email to reply to"`
	ReplyText string `json:"reply_text" jsonschema:"text content of the reply"`
}

// CreateNewDraftRequest carries the fields of a standalone draft.
type CreateNewDraftRequest struct {
	Recipient string `json:"recipient,omitempty" jsonschema:"email address to send to, can be empty to leave blank"`
	Subject   string `json:"subject,omitempty" jsonschema:"subject of the email, defaults to No Subject"`
	BodyText  string `json:"body_text,omitempty" jsonschema:"body content of the email"`
}

// DraftStatusResponse is the single string result both draft tools produce.
type DraftStatusResponse struct {
	Status string `json:"status" jsonschema:"human-readable draft creation status"`
}

type draftSvc interface {
	GetMessage(ctx context.Context, msgID string) (*gmail.Message, error)
	CreateDraft(ctx context.Context, raw, threadID string) (*gmail.Draft, error)
}

// NewCreateDraft creates the draft tools.
func NewCreateDraft(svc draftSvc) *CreateDraft {
	return &CreateDraft{svc: svc}
}

// CreateDraft builds reply drafts and standalone drafts.
//
// Both handlers convert every failure into a descriptive status string
// instead of returning an error: tool callers always receive a result
// value, never an error channel.
type CreateDraft struct {
	svc draftSvc
}

// CreateReplyDraft drafts a reply threaded onto an existing message.
func (t *CreateDraft) CreateReplyDraft(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateReplyDraftRequest,
) (*mcp.CallToolResult, DraftStatusResponse, error) {
	subject, recipient, err := t.composeReply(ctx, input.EmailID, input.ReplyText)
	if err != nil {
		return nil, DraftStatusResponse{
			Status: fmt.Sprintf("Failed to create reply draft: %v", err),
		}, nil
	}

	return nil, DraftStatusResponse{
		Status: fmt.Sprintf("Draft reply to %q created for %s.", subject, recipient),
	}, nil
}

func (t *CreateDraft) composeReply(ctx context.Context, emailID, replyText string) (subject, recipient string, err error) {
	msg, err := t.svc.GetMessage(ctx, emailID)
	if err != nil {
		return "", "", fmt.Errorf("svc.GetMessage failed: %w", err)
	}

	subject = mail.Header(msg, "Subject", mail.NoSubject)
	recipient = mail.ExtractAddress(mail.Header(msg, "From", ""))

	raw := mail.EncodeRaw(recipient, "Re: "+subject, replyText)

	// msg.ThreadId threads the draft onto the original conversation;
	// absent thread ids stay absent, never synthesized.
	if _, err := t.svc.CreateDraft(ctx, raw, msg.ThreadId); err != nil {
		return "", "", fmt.Errorf("svc.CreateDraft failed: %w", err)
	}

	return subject, recipient, nil
}

// CreateNewEmailDraft drafts a standalone email, not tied to any thread.
func (t *CreateDraft) CreateNewEmailDraft(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateNewDraftRequest,
) (*mcp.CallToolResult, DraftStatusResponse, error) {
	subject := input.Subject
	if subject == "" {
		subject = mail.NoSubject
	}

	raw := mail.EncodeRaw(input.Recipient, subject, input.BodyText)

	if _, err := t.svc.CreateDraft(ctx, raw, ""); err != nil {
		return nil, DraftStatusResponse{
			Status: fmt.Sprintf("Failed to create new email draft: %v", err),
		}, nil
	}

	recipient := input.Recipient
	if recipient == "" {
		recipient = "[No recipient]"
	}

	return nil, DraftStatusResponse{
		Status: fmt.Sprintf("New draft created (to: %s, subject: %s).", recipient, subject),
	}, nil
}
