// Package tool exposes Gmail inbox reading and draft creation as MCP tools.
package tool

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type gmailSvc interface {
	readEmailsSvc
	draftSvc
}

// NewServer creates an MCP server with the Gmail reader tools.
func NewServer(svc gmailSvc) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "gmail-reader", Version: "v1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "read_emails",
		Description: "Fetch recent emails from the Gmail inbox, with a page token for loading more",
	}, NewReadEmails(svc).ReadEmails)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_reply_draft",
		Description: "Create a reply draft for an email with the given reply text",
	}, NewCreateDraft(svc).CreateReplyDraft)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_new_email_draft",
		Description: "Create a new draft email (not a reply)",
	}, NewCreateDraft(svc).CreateNewEmailDraft)

	return server
}
