package transport

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/nao1215/sqlkernel"
)

// ProtocolVersion is the messaging protocol version stamped on every header.
const ProtocolVersion = "5.3"

// Message types
const (
	MsgExecuteRequest    = "execute_request"
	MsgExecuteReply      = "execute_reply"
	MsgExecuteResult     = "execute_result"
	MsgDisplayData       = "display_data"
	MsgError             = "error"
	MsgStatus            = "status"
	MsgKernelInfoRequest = "kernel_info_request"
	MsgKernelInfoReply   = "kernel_info_reply"
	MsgCompleteRequest   = "complete_request"
	MsgCompleteReply     = "complete_reply"
	MsgIsCompleteRequest = "is_complete_request"
	MsgIsCompleteReply   = "is_complete_reply"
	MsgShutdownRequest   = "shutdown_request"
	MsgShutdownReply     = "shutdown_reply"
)

// Execution states carried by status messages
const (
	StateBusy = "busy"
	StateIdle = "idle"
)

// Header identifies a message.
type Header struct {
	MsgID    string `json:"msg_id"`
	MsgType  string `json:"msg_type"`
	Session  string `json:"session"`
	Username string `json:"username,omitempty"`
	Date     string `json:"date"`
	Version  string `json:"version"`
}

// Message is the envelope exchanged over the websocket. ParentHeader is the
// header of the request a reply answers.
type Message struct {
	Header       Header          `json:"header"`
	ParentHeader *Header         `json:"parent_header"`
	Metadata     map[string]any  `json:"metadata"`
	Content      json.RawMessage `json:"content"`
}

// newMessage builds a reply to parent. A nil parent starts a new exchange in
// session.
func newMessage(msgType string, parent *Header, session string, content any) (*Message, error) {
	raw, err := json.Marshal(content)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s content", msgType)
	}
	if parent != nil {
		session = parent.Session
	}
	return &Message{
		Header: Header{
			MsgID:   uuid.NewString(),
			MsgType: msgType,
			Session: session,
			Date:    time.Now().UTC().Format(time.RFC3339Nano),
			Version: ProtocolVersion,
		},
		ParentHeader: parent,
		Metadata:     map[string]any{},
		Content:      raw,
	}, nil
}

// NewRequest builds a client request in session.
func NewRequest(msgType, session string, content any) (*Message, error) {
	return newMessage(msgType, nil, session, content)
}

// Decode unmarshals the message content into v.
func (m *Message) Decode(v any) error {
	if len(m.Content) == 0 {
		return nil
	}
	if err := json.Unmarshal(m.Content, v); err != nil {
		return errors.Wrapf(err, "invalid %s content", m.Header.MsgType)
	}
	return nil
}

// ExecuteRequest is the content of execute_request.
type ExecuteRequest struct {
	Code         string `json:"code"`
	Silent       bool   `json:"silent"`
	StoreHistory bool   `json:"store_history"`
	AllowStdin   bool   `json:"allow_stdin"`
}

// ExecuteReply is the content of execute_reply.
type ExecuteReply struct {
	Status         string   `json:"status"`
	ExecutionCount int      `json:"execution_count"`
	EName          string   `json:"ename,omitempty"`
	EValue         string   `json:"evalue,omitempty"`
	Traceback      []string `json:"traceback,omitempty"`
}

// ExecuteResult is the content of execute_result.
type ExecuteResult struct {
	ExecutionCount int              `json:"execution_count"`
	Data           sqlkernel.Bundle `json:"data"`
	Metadata       map[string]any   `json:"metadata"`
}

// DisplayData is the content of display_data.
type DisplayData struct {
	Data     sqlkernel.Bundle `json:"data"`
	Metadata map[string]any   `json:"metadata"`
}

// Error is the content of an error message.
type Error struct {
	EName     string   `json:"ename"`
	EValue    string   `json:"evalue"`
	Traceback []string `json:"traceback"`
}

// Status is the content of a status message.
type Status struct {
	ExecutionState string `json:"execution_state"`
}

// LanguageInfo describes the kernel language in kernel_info_reply.
type LanguageInfo struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	MIMEType      string `json:"mimetype"`
	FileExtension string `json:"file_extension"`
}

// KernelInfoReply is the content of kernel_info_reply.
type KernelInfoReply struct {
	Status                string       `json:"status"`
	ProtocolVersion       string       `json:"protocol_version"`
	Implementation        string       `json:"implementation"`
	ImplementationVersion string       `json:"implementation_version"`
	LanguageInfo          LanguageInfo `json:"language_info"`
	Banner                string       `json:"banner"`
}

// CompleteRequest is the content of complete_request.
type CompleteRequest struct {
	Code      string `json:"code"`
	CursorPos int    `json:"cursor_pos"`
}

// CompleteReply is the content of complete_reply.
type CompleteReply struct {
	Status      string         `json:"status"`
	Matches     []string       `json:"matches"`
	CursorStart int            `json:"cursor_start"`
	CursorEnd   int            `json:"cursor_end"`
	Metadata    map[string]any `json:"metadata"`
}

// IsCompleteRequest is the content of is_complete_request.
type IsCompleteRequest struct {
	Code string `json:"code"`
}

// IsCompleteReply is the content of is_complete_reply.
type IsCompleteReply struct {
	Status string `json:"status"`
}

// ShutdownRequest is the content of shutdown_request.
type ShutdownRequest struct {
	Restart bool `json:"restart"`
}

// ShutdownReply is the content of shutdown_reply.
type ShutdownReply struct {
	Status  string `json:"status"`
	Restart bool   `json:"restart"`
}
