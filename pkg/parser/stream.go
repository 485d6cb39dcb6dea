package parser

import (
	"strings"

	"github.com/jmylchreest/reparse/internal/logger"
	"github.com/jmylchreest/reparse/pkg/schema"
)

// Session accumulates streamed text fragments and attempts extraction
// incrementally, so a caller can recover structured messages as they
// complete rather than waiting for the stream to end. A Session is owned
// by exactly one logical stream: it is not internally synchronized and
// assumes single-threaded, in-order delivery. Independent sessions share
// nothing mutable.
type Session struct {
	parser   *Parser
	schema   schema.Schema
	buffer   strings.Builder
	outcomes []Outcome
}

// OpenSession creates a streaming session bound to the given schema.
func (p *Parser) OpenSession(s schema.Schema) *Session {
	return &Session{
		parser: p,
		schema: s,
	}
}

// Feed appends a chunk to the session buffer and attempts a single-pass
// extraction (no repair) against the accumulated text. On success the
// outcome is recorded, the buffer is cleared so the session can recover
// the next message, and the outcome is returned. A nil return is not an
// error: it means more text is still expected.
func (sess *Session) Feed(chunk string) *Outcome {
	sess.buffer.WriteString(chunk)

	outcome := sess.parser.Parse(sess.buffer.String(), sess.schema)
	if !outcome.Success {
		return nil
	}

	logger.Debug("streamed message recovered",
		"schema", sess.schema.Name,
		"buffered_bytes", sess.buffer.Len(),
		"message", len(sess.outcomes)+1)

	sess.outcomes = append(sess.outcomes, outcome)
	sess.buffer.Reset()
	return &outcome
}

// Finalize completes the session. With an empty buffer and at least one
// completed message it returns the last outcome, and calling it again
// returns the same result. With leftover buffered text it runs the full
// repair loop over the buffer, the only point at which repair happens
// during streaming. With nothing buffered and nothing completed it returns
// a failure outcome over empty input.
func (sess *Session) Finalize() Outcome {
	if sess.buffer.Len() == 0 {
		if n := len(sess.outcomes); n > 0 {
			return sess.outcomes[n-1]
		}
		return sess.parser.Parse("", sess.schema)
	}

	outcome := sess.parser.ParseWithRetry(sess.buffer.String(), sess.schema)
	if outcome.Success {
		sess.outcomes = append(sess.outcomes, outcome)
		sess.buffer.Reset()
	}
	return outcome
}

// Reset discards buffered text and completed outcomes, returning the
// session to its initial state.
func (sess *Session) Reset() {
	sess.buffer.Reset()
	sess.outcomes = nil
}

// Outcomes returns the completed outcomes in arrival order. The returned
// slice is a copy; mutating it does not affect the session.
func (sess *Session) Outcomes() []Outcome {
	out := make([]Outcome, len(sess.outcomes))
	copy(out, sess.outcomes)
	return out
}
