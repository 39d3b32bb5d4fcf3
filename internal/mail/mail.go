// Package mail builds RFC 2822 draft payloads and extracts addresses from
// raw message headers.
package mail

import (
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/api/gmail/v1"
)

// Sentinel values substituted when a message omits the field entirely.
const (
	NoSubject     = "No Subject"
	UnknownSender = "Unknown Sender"
	NoSnippet     = "No Snippet"
)

// ExtractAddress recovers the bare address from a From-style header of the
// form `Display Name <address>`. Headers without an angle-bracket address
// degrade to the whole string trimmed of surrounding whitespace.
func ExtractAddress(header string) string {
	start := strings.Index(header, "<")
	if start != -1 {
		if end := strings.Index(header[start:], ">"); end > 1 {
			return header[start+1 : start+end]
		}
	}

	return strings.TrimSpace(header)
}

// Header returns the value of the named header from a message payload, or
// fallback when the message does not carry it. Gmail omits headers for
// malformed mail, so absence is an expected case, not an error.
func Header(msg *gmail.Message, name, fallback string) string {
	if msg == nil || msg.Payload == nil {
		return fallback
	}

	for _, h := range msg.Payload.Headers {
		if h.Name == name {
			return h.Value
		}
	}

	return fallback
}

// EncodeRaw serializes a plain-text message into the base64url form the
// Drafts API expects in Message.Raw. An empty recipient leaves the To
// header out entirely; an empty body is a valid empty-body message.
func EncodeRaw(to, subject, body string) string {
	var buf strings.Builder

	if to != "" {
		buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	}
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)

	return base64.URLEncoding.EncodeToString([]byte(buf.String()))
}
