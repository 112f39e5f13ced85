package models

// Message is one inbound chat update, normalized across transports.
type Message struct {
	Text     string
	ChatID   int64
	ChatType string // private, group, supergroup, channel, console
	UserName string
	UserID   int64
}

// Reply is what the engine hands back to the transport: text, optionally
// with an attached document (CSV export, chart image).
type Reply struct {
	Text     string
	Document *Document
}

// Document is a file attachment for transports that support one.
type Document struct {
	Filename string
	Payload  []byte
}

// TextReply wraps a plain string reply.
func TextReply(text string) Reply { return Reply{Text: text} }
