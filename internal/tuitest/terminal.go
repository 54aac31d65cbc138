package tuitest

import (
	"bytes"
	"io"
)

// terminalQuery pairs a capability query the program may emit with the
// canned reply a real terminal would send back. Without these replies
// bubbletea blocks waiting for the terminal to identify itself.
type terminalQuery struct {
	pattern []byte
	reply   []byte
}

// Cursor position plus foreground/background color queries, each in both
// BEL- and ST-terminated OSC forms.
var terminalQueries = []terminalQuery{
	{pattern: []byte("\x1b[6n"), reply: []byte("\x1b[1;1R")},
	{pattern: []byte("\x1b]10;?\x07"), reply: []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{pattern: []byte("\x1b]10;?\x1b\\"), reply: []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{pattern: []byte("\x1b]11;?\x07"), reply: []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{pattern: []byte("\x1b]11;?\x1b\\"), reply: []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

// terminalResponder watches the program's output stream for capability
// queries and answers them on the PTY so the program never stalls.
type terminalResponder struct {
	w   io.Writer
	buf []byte
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, buf: make([]byte, 0, 128)}
}

func (tr *terminalResponder) Process(chunk []byte) {
	tr.buf = append(tr.buf, chunk...)
	tr.scan()
	// Keep a small tail so queries that span reads are still detected.
	if len(tr.buf) > 256 {
		tr.buf = tr.buf[len(tr.buf)-64:]
	}
}

func (tr *terminalResponder) scan() {
	for {
		answered := false
		for _, query := range terminalQueries {
			if tr.consume(query.pattern, query.reply) {
				answered = true
			}
		}
		if !answered {
			return
		}
	}
}

func (tr *terminalResponder) consume(pattern, reply []byte) bool {
	idx := bytes.Index(tr.buf, pattern)
	if idx < 0 {
		return false
	}
	tr.buf = tr.buf[idx+len(pattern):]
	_, _ = tr.w.Write(reply)
	return true
}
