package tool_test

import (
	"context"
	"errors"

	"google.golang.org/api/gmail/v1"
)

type gmailSvcMock struct {
	ListInboxFunc          func(ctx context.Context, maxResults int64, pageToken string) (*gmail.ListMessagesResponse, error)
	GetMessageMetadataFunc func(ctx context.Context, msgID string) (*gmail.Message, error)
	GetMessageFunc         func(ctx context.Context, msgID string) (*gmail.Message, error)
	CreateDraftFunc        func(ctx context.Context, raw, threadID string) (*gmail.Draft, error)
}

func (m *gmailSvcMock) ListInbox(ctx context.Context, maxResults int64, pageToken string) (*gmail.ListMessagesResponse, error) {
	if m.ListInboxFunc == nil {
		return nil, errors.New("ListInbox not implemented")
	}
	return m.ListInboxFunc(ctx, maxResults, pageToken)
}

func (m *gmailSvcMock) GetMessageMetadata(ctx context.Context, msgID string) (*gmail.Message, error) {
	if m.GetMessageMetadataFunc == nil {
		return nil, errors.New("GetMessageMetadata not implemented")
	}
	return m.GetMessageMetadataFunc(ctx, msgID)
}

func (m *gmailSvcMock) GetMessage(ctx context.Context, msgID string) (*gmail.Message, error) {
	if m.GetMessageFunc == nil {
		return nil, errors.New("GetMessage not implemented")
	}
	return m.GetMessageFunc(ctx, msgID)
}

func (m *gmailSvcMock) CreateDraft(ctx context.Context, raw, threadID string) (*gmail.Draft, error) {
	if m.CreateDraftFunc == nil {
		return nil, errors.New("CreateDraft not implemented")
	}
	return m.CreateDraftFunc(ctx, raw, threadID)
}
