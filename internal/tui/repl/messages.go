package repl

import (
	"time"

	"github.com/msto63/pratt/foundation/pratt/lexer"
	"github.com/msto63/pratt/internal/service"
)

// EntryKind classifies a transcript entry
type EntryKind int

const (
	KindInput EntryKind = iota
	KindResult
	KindTokens
	KindInfo
	KindError
)

// Entry is one line group of the transcript
type Entry struct {
	Kind      EntryKind
	Content   string
	Tokens    []lexer.Token
	Duration  time.Duration
	Timestamp time.Time
}

// evalResultMsg is sent when an evaluation finishes
type evalResultMsg struct {
	input  string
	result *service.Result
	err    error
}
