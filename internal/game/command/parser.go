package command

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/dmbot/internal/game/fault"
)

const quote = `"`

// ErrUnterminatedQuote is returned when a quoted run is never closed.
var ErrUnterminatedQuote = fmt.Errorf("unterminated quote: %w", fault.ErrInvalidInput)

// Tokenize splits line on single spaces. A word starting with a double quote
// opens a run that ends at the next word ending with one; the run becomes a
// single token with its words rejoined by single spaces and the quotes
// removed. Empty words outside a run are dropped.
func Tokenize(line string) ([]string, error) {
	var (
		tokens  []string
		run     []string
		inQuote bool
	)
	for _, word := range strings.Split(line, " ") {
		if !inQuote {
			switch {
			case word == "":
				continue
			case !strings.HasPrefix(word, quote):
				tokens = append(tokens, word)
				continue
			}
			word = word[len(quote):]
			if strings.HasSuffix(word, quote) {
				tokens = append(tokens, strings.TrimSuffix(word, quote))
				continue
			}
			inQuote = true
			run = append(run[:0], word)
			continue
		}
		if strings.HasSuffix(word, quote) {
			run = append(run, strings.TrimSuffix(word, quote))
			tokens = append(tokens, strings.Join(run, " "))
			inQuote = false
			continue
		}
		run = append(run, word)
	}
	if inQuote {
		return nil, ErrUnterminatedQuote
	}
	return tokens, nil
}

// ParseResult holds the parsed command name and arguments from a chat line.
type ParseResult struct {
	// Command is the first token with any prefix removed.
	Command string
	// Args are the remaining tokens.
	Args []string
}

// Parse tokenizes line and strips prefix from the first token.
//
// Postcondition: ok is false when line is empty or the first token lacks
// prefix; err is non-nil only for malformed quoting.
func Parse(line, prefix string) (res ParseResult, ok bool, err error) {
	tokens, err := Tokenize(strings.TrimRight(line, "\r\n"))
	if err != nil {
		return ParseResult{}, false, err
	}
	if len(tokens) == 0 {
		return ParseResult{}, false, nil
	}
	name, found := strings.CutPrefix(tokens[0], prefix)
	if !found || name == "" {
		return ParseResult{}, false, nil
	}
	return ParseResult{Command: name, Args: tokens[1:]}, true, nil
}
