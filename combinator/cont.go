package combinator

import (
	"github.com/alexjc/joyfl/joyerr"
	"github.com/alexjc/joyfl/library"
	"github.com/alexjc/joyfl/linker"
	"github.com/alexjc/joyfl/parser"
	"github.com/alexjc/joyfl/queue"
	"github.com/alexjc/joyfl/value"
)

// InputSource supplies one line of interactive input at a time. A small
// interface rather than reading stdin directly, so the ",,," combinator
// can be driven by tests without a terminal attached; a REPL front end
// would implement it against its own line editor.
type InputSource interface {
	ReadLine() (string, error)
}

// NewCont builds the ",,," interactive-continuation combinator: it reads
// one line, parses and links it into a program, and prepends that
// program plus a re-invocation of itself to the queue so the REPL loop
// continues.
func NewCont(src InputSource) library.CombinatorFunc {
	return func(op *value.Operation, q *queue.Queue, s value.Stack, lib *library.Library) (value.Stack, error) {
		line, err := src.ReadLine()
		if err != nil {
			return nil, joyerr.Wrap(err, joyerr.RuntimeError, "`,,,` could not read input")
		}
		if line == "" {
			return s, nil
		}
		entries, err := parser.Parse(line, "<REPL>")
		if err != nil {
			return nil, joyerr.Wrap(err, joyerr.ParseError, "`,,,` could not parse input")
		}
		var prog value.Program
		for _, e := range entries {
			if e.Term == nil {
				continue
			}
			p, _, err := linker.LinkBody(e.Term.Tokens, e.Term.Meta, lib, "")
			if err != nil {
				return nil, err
			}
			prog = append(prog, p...)
		}
		if len(prog) == 0 {
			return s, nil
		}
		items := make(value.Program, 0, len(prog)+1)
		items = append(items, prog...)
		items = append(items, op)
		q.Prepend(items)
		return s, nil
	}
}
