package jack

import (
	"fmt"
	"io"
	"strings"

	"its-hmny.dev/jackanalyzer/pkg/utils"
)

// ----------------------------------------------------------------------------
// XML Emitter

// This section defines the XML Emitter that serializes the analysis output.
//
// The emitter owns the output byte sink and a stack of currently open structural
// tags: the stack size is the nesting depth and every line is indented by two
// blanks per level. The terminal write methods double as the parser's matching
// primitives: each one advances the scanner, validates the class (and, for
// keywords, the lexeme) of the token it just consumed and only then prints the
// one-line element. A mismatch is reported as an illegal token and nothing is
// written.
type Emitter struct {
	output io.Writer           // The byte sink the XML document is written to
	open   utils.Stack[string] // The structural tags opened and not yet closed
}

// Initializes and returns to the caller a brand new 'Emitter' struct.
// Requires the argument io.Writer 'w' to be valid and usable.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{output: w, open: utils.NewStack[string]()}
}

// Writes the '<element>' opening tag at the current indentation and makes every
// following line one level deeper until the matching WriteEndTag.
func (emitter *Emitter) WriteStartTag(element string) error {
	if _, err := fmt.Fprintf(emitter.output, "%s<%s>\n", emitter.indent(), element); err != nil {
		return err
	}

	emitter.open.Push(element)
	return nil
}

// Closes the innermost open element, which must be 'element': structural tags
// always close in LIFO order.
func (emitter *Emitter) WriteEndTag(element string) error {
	top, err := emitter.open.Top()
	if err != nil {
		return fmt.Errorf("cannot close element '%s', no element is open", element)
	}
	if top != element {
		return fmt.Errorf("cannot close element '%s', innermost open element is '%s'", element, top)
	}

	emitter.open.Pop()
	_, err = fmt.Fprintf(emitter.output, "%s</%s>\n", emitter.indent(), element)
	return err
}

// Consumes the next token, which must be a keyword included in 'targets', and
// writes it as a '<keyword>' element.
func (emitter *Emitter) WriteKeyword(scanner *Scanner, targets ...KeyWord) error {
	if err := scanner.Advance(); err != nil {
		return err
	}

	keyword, err := scanner.KeyWord()
	if err != nil {
		return err
	}

	for _, target := range targets {
		if keyword == target {
			return emitter.writeTerminal(Keyword, string(keyword))
		}
	}

	return fmt.Errorf("%w: unexpected keyword '%s'", ErrIllegalToken, keyword)
}

// Consumes the next token, which must be an identifier, and writes it as an
// '<identifier>' element.
func (emitter *Emitter) WriteIdentifier(scanner *Scanner) error {
	if err := scanner.Advance(); err != nil {
		return err
	}

	identifier, err := scanner.Identifier()
	if err != nil {
		return err
	}

	return emitter.writeTerminal(Identifier, identifier)
}

// Consumes the next token, which must be a symbol, and writes it as a '<symbol>'
// element. The three characters reserved by XML ('<', '>', '&') are escaped.
func (emitter *Emitter) WriteSymbol(scanner *Scanner) error {
	if err := scanner.Advance(); err != nil {
		return err
	}

	symbol, err := scanner.Symbol()
	if err != nil {
		return err
	}

	return emitter.writeTerminal(Symbol, escapeSymbol(string(symbol)))
}

// Consumes the next token, which must be an integer constant, and writes it as
// an '<integerConstant>' element.
func (emitter *Emitter) WriteIntegerConstant(scanner *Scanner) error {
	if err := scanner.Advance(); err != nil {
		return err
	}

	value, err := scanner.IntVal()
	if err != nil {
		return err
	}

	return emitter.writeTerminal(IntegerConstant, fmt.Sprint(value))
}

// Consumes the next token, which must be a string constant, and writes its
// interior text as a '<stringConstant>' element.
func (emitter *Emitter) WriteStringConstant(scanner *Scanner) error {
	if err := scanner.Advance(); err != nil {
		return err
	}

	text, err := scanner.StringVal()
	if err != nil {
		return err
	}

	return emitter.writeTerminal(StringConstant, text)
}

// Drains the whole scanner into the flat '<tokens>' document used by the first
// pipeline stage, one element per token and no indentation on the children.
func (emitter *Emitter) WriteTokens(scanner *Scanner) error {
	if _, err := fmt.Fprintln(emitter.output, "<tokens>"); err != nil {
		return err
	}

	for scanner.HasMoreTokens() {
		if err := scanner.Advance(); err != nil {
			return err
		}

		token := scanner.Token()
		lexeme := token.Lexeme
		if token.Class == Symbol {
			lexeme = escapeSymbol(lexeme)
		}

		if err := emitter.writeTerminal(token.Class, lexeme); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(emitter.output, "</tokens>")
	return err
}

// Writes a one-line terminal element, a single blank pads the lexeme on both
// sides so that '<symbol> ; </symbol>' stays readable.
func (emitter *Emitter) writeTerminal(class TokenClass, lexeme string) error {
	_, err := fmt.Fprintf(emitter.output, "%s<%s> %s </%s>\n", emitter.indent(), class, lexeme, class)
	return err
}

func (emitter *Emitter) indent() string {
	return strings.Repeat("  ", emitter.open.Count())
}

// Only the symbol lexemes can collide with the XML metacharacters, everything
// else is printed as is.
func escapeSymbol(symbol string) string {
	switch symbol {
	case "<":
		return "&lt;"
	case ">":
		return "&gt;"
	case "&":
		return "&amp;"
	}

	return symbol
}
