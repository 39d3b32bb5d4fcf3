// Package gservice wraps the Gmail API behind the call shapes the tools
// consume, routing every remote call through the retry invoker.
package gservice

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/gmailtools/gmail-reader-mcp/internal/auth"
	"github.com/gmailtools/gmail-reader-mcp/internal/retry"
)

const (
	gmailUserID = "me"
	labelInbox  = "INBOX"
)

func NewGmail(cfg *oauth2.Config, tok *auth.Token) *GMail {
	return &GMail{
		cfg: cfg,
		tok: tok,
		inv: retry.New(),
	}
}

type GMail struct {
	cfg *oauth2.Config
	tok *auth.Token
	inv *retry.Invoker
}

// ListInbox requests one page of inbox message references, at most
// maxResults of them, continuing from pageToken when given.
func (m *GMail) ListInbox(ctx context.Context, maxResults int64, pageToken string) (*gmail.ListMessagesResponse, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	var result *gmail.ListMessagesResponse
	err = m.inv.Do(ctx, "messages.list", func() error {
		result, err = svc.Users.Messages.List(gmailUserID).
			LabelIds(labelInbox).
			MaxResults(maxResults).
			PageToken(pageToken).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("messages.List failed: %w", err)
	}

	return result, nil
}

// GetMessageMetadata fetches only the From and Subject headers plus the
// snippet, keeping listing cheap.
func (m *GMail) GetMessageMetadata(ctx context.Context, msgID string) (*gmail.Message, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	var msg *gmail.Message
	err = m.inv.Do(ctx, "messages.get", func() error {
		msg, err = svc.Users.Messages.Get(gmailUserID, msgID).
			Format("METADATA").
			MetadataHeaders("From", "Subject").
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("messages.Get failed: %w", err)
	}

	return msg, nil
}

// GetMessage fetches the full message, all headers included.
func (m *GMail) GetMessage(ctx context.Context, msgID string) (*gmail.Message, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	var msg *gmail.Message
	err = m.inv.Do(ctx, "messages.get", func() error {
		msg, err = svc.Users.Messages.Get(gmailUserID, msgID).
			Format("full").
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("messages.Get failed: %w", err)
	}

	return msg, nil
}

// CreateDraft submits a base64url-encoded raw message as a new draft.
// A non-empty threadID attaches the draft to that conversation.
func (m *GMail) CreateDraft(ctx context.Context, raw, threadID string) (*gmail.Draft, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	draft := &gmail.Draft{
		Message: &gmail.Message{
			Raw: raw,
		},
	}
	if threadID != "" {
		draft.Message.ThreadId = threadID
	}

	var created *gmail.Draft
	err = m.inv.Do(ctx, "drafts.create", func() error {
		created, err = svc.Users.Drafts.Create(gmailUserID, draft).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("drafts.Create failed: %w", err)
	}

	return created, nil
}

func (m *GMail) newSvc(ctx context.Context) (*gmail.Service, error) {
	t, err := m.tok.OAuthToken()
	if err != nil {
		return nil, fmt.Errorf("tok.OAuthToken failed: %w", err)
	}

	clt := m.cfg.Client(ctx, t)

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(clt))
	if err != nil {
		return nil, fmt.Errorf("gmail.NewService failed: %w", err)
	}

	return svc, nil
}
