package importlog

// MessageBuilder accumulates message fragments before adding the message to
// a Log.
type MessageBuilder struct {
	log     *Log
	msg     Message
	emitted bool
}

// NewMessage starts a message bound to l.
func NewMessage(l *Log, sev Severity, t MessageType) *MessageBuilder {
	return &MessageBuilder{
		log: l,
		msg: Message{Type: t, Severity: sev},
	}
}

// Error is a shortcut for NewMessage(l, Error, t).
func (l *Log) Error(t MessageType) *MessageBuilder { return NewMessage(l, Error, t) }

// Warning is a shortcut for NewMessage(l, Warn, t).
func (l *Log) Warning(t MessageType) *MessageBuilder { return NewMessage(l, Warn, t) }

// Info is a shortcut for NewMessage(l, Info, t).
func (l *Log) Info(t MessageType) *MessageBuilder { return NewMessage(l, Info, t) }

// Text appends a plain text fragment.
func (b *MessageBuilder) Text(s string) *MessageBuilder {
	if b == nil {
		return nil
	}
	b.msg.Fragments = append(b.msg.Fragments, Fragment{Text: s})
	return b
}

// Link appends a fragment linking text to the [start,end) slice of the layout.
func (b *MessageBuilder) Link(text string, start, end int) *MessageBuilder {
	if b == nil {
		return nil
	}
	b.msg.Fragments = append(b.msg.Fragments, Fragment{Text: text, Link: &Span{Start: start, End: end}})
	return b
}

// Emit adds the message to the log exactly once.
func (b *MessageBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.log != nil {
		b.log.add(b.msg)
	}
	b.emitted = true
}
