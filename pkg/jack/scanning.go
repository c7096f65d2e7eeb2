package jack

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"its-hmny.dev/jackanalyzer/pkg/utils"
)

// The language-defined ceiling for integer constants (2^15 - 1).
const MaxIntConstant = 32767

// ----------------------------------------------------------------------------
// Comment stripping

// Walks the raw source left to right and removes both comment forms supported by
// the language: line comments ('//' up to the line terminator) and block comments
// ('/*' up to the first '*/', documentation '/**' comments are the same form and
// block comments do not nest). String literals are copied through verbatim so a
// comment marker inside one is just text.
//
// Line terminators are replaced by a single blank so that tokens on adjacent
// lines keep their boundary, the tokenization pass skips blanks anyway.
func stripComments(source string) (string, error) {
	var cleaned strings.Builder

	for index := 0; index < len(source); {
		switch char := source[index]; {
		case char == '"':
			closing := strings.IndexByte(source[index+1:], '"')
			if closing == -1 {
				return "", fmt.Errorf("%w: unterminated string literal", ErrFormatError)
			}
			cleaned.WriteString(source[index : index+closing+2])
			index += closing + 2

		case char == '/' && index+1 < len(source) && source[index+1] == '/':
			terminator := strings.IndexByte(source[index:], '\n')
			if terminator == -1 {
				index = len(source) // A line comment can also be closed by the end of input
			} else {
				index += terminator // The terminator itself is turned into a blank below
			}

		case char == '/' && index+1 < len(source) && source[index+1] == '*':
			terminator := strings.Index(source[index+2:], "*/")
			if terminator == -1 {
				return "", fmt.Errorf("%w: unterminated block comment", ErrFormatError)
			}
			index += terminator + 4

		case char == '\r' || char == '\n':
			cleaned.WriteByte(' ')
			index++

		default:
			cleaned.WriteByte(char)
			index++
		}
	}

	return cleaned.String(), nil
}

// ----------------------------------------------------------------------------
// Tokenization

// Walks the comment-free source and extracts the complete token sequence in one
// pass, dispatching on the first character of each candidate token: '"' opens a
// string constant, a symbol character is a token on its own, a letter or '_'
// opens a keyword/identifier run, a digit opens an integer constant and every
// other character (blanks and controls) separates tokens w/o producing one.
func tokenize(source string) ([]Token, error) {
	tokens := []Token{}

	for index := 0; index < len(source); {
		switch char := source[index]; {
		case char == '"':
			closing := strings.IndexByte(source[index+1:], '"')
			if closing == -1 {
				return nil, fmt.Errorf("%w: unterminated string literal", ErrFormatError)
			}
			tokens = append(tokens, Token{Class: StringConstant, Lexeme: source[index+1 : index+1+closing]})
			index += closing + 2

		case strings.IndexByte(Symbols, char) != -1:
			tokens = append(tokens, Token{Class: Symbol, Lexeme: string(char)})
			index++

		case isIdentStart(char):
			start := index
			for index < len(source) && isIdentPart(source[index]) {
				index++
			}

			lexeme := source[start:index]
			if _, reserved := KeyWords[lexeme]; reserved {
				tokens = append(tokens, Token{Class: Keyword, Lexeme: lexeme})
			} else {
				tokens = append(tokens, Token{Class: Identifier, Lexeme: lexeme})
			}

		case isDigit(char):
			start := index
			for index < len(source) && isDigit(source[index]) {
				index++
			}

			lexeme := source[start:index]
			if value, err := strconv.Atoi(lexeme); err != nil || value > MaxIntConstant {
				return nil, fmt.Errorf("%w: integer constant '%s' out of range", ErrFormatError, lexeme)
			}
			tokens = append(tokens, Token{Class: IntegerConstant, Lexeme: lexeme})

		default:
			index++
		}
	}

	return tokens, nil
}

// An identifier opens with a letter or underscore and continues with any run of
// letters, digits and underscores.
func isIdentStart(char byte) bool {
	return char == '_' || (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z')
}

func isIdentPart(char byte) bool {
	return isIdentStart(char) || isDigit(char)
}

func isDigit(char byte) bool {
	return char >= '0' && char <= '9'
}

// ----------------------------------------------------------------------------
// Jack Scanner

// This section defines the Scanner for the Jack language.
//
// The scanner slurps the whole source upfront, strips comments and extracts the
// complete token sequence into a FIFO queue in a single preparse pass. From there
// on it hands tokens over one at a time: 'Advance' dequeues the head into the
// current token slot while 'Peek' and 'PeekSecond' give the one and two token
// lookahead the parser needs to pick a production w/o backtracking.
type Scanner struct {
	queue   utils.Queue[Token] // The tokens not yet handed over to the caller
	current Token              // The token dequeued by the last successful Advance
}

// Initializes and returns to the caller a brand new 'Scanner' struct.
// Reads the argument io.Reader 'r' in full before returning, the source is not
// needed (nor accessed) afterwards.
func NewScanner(r io.Reader) (*Scanner, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read from 'io.Reader': %s", err)
	}

	cleaned, err := stripComments(string(content))
	if err != nil {
		return nil, err
	}

	tokens, err := tokenize(cleaned)
	if err != nil {
		return nil, err
	}

	return &Scanner{queue: utils.NewQueue(tokens...)}, nil
}

// Reports whether at least one token is still waiting in the queue.
func (scanner *Scanner) HasMoreTokens() bool {
	return scanner.queue.Count() > 0
}

// Returns the token at the queue head without consuming it.
func (scanner *Scanner) Peek() (Token, error) {
	token, err := scanner.queue.At(0)
	if err != nil {
		return Token{}, fmt.Errorf("%w: expected a token, found end of input", ErrIllegalToken)
	}

	return token, nil
}

// Returns the token one position past the queue head without consuming anything,
// fails when fewer than two tokens remain.
func (scanner *Scanner) PeekSecond() (Token, error) {
	token, err := scanner.queue.At(1)
	if err != nil {
		return Token{}, fmt.Errorf("%w: expected a token, found end of input", ErrIllegalToken)
	}

	return token, nil
}

// Dequeues the head of the token queue into the current token slot. The typed
// accessors below are only meaningful after a successful Advance.
func (scanner *Scanner) Advance() error {
	token, err := scanner.queue.Dequeue()
	if err != nil {
		return fmt.Errorf("%w: expected a token, found end of input", ErrIllegalToken)
	}

	scanner.current = token
	return nil
}

// Returns the current token as is.
func (scanner *Scanner) Token() Token {
	return scanner.current
}

// Returns the lexical class of the current token.
func (scanner *Scanner) TokenClass() TokenClass {
	return scanner.current.Class
}

// Returns the current token as a reserved word, fails on any other class.
func (scanner *Scanner) KeyWord() (KeyWord, error) {
	if scanner.current.Class != Keyword {
		return "", fmt.Errorf("%w: expected a keyword, found %s '%s'", ErrIllegalToken, scanner.current.Class, scanner.current.Lexeme)
	}

	return KeyWord(scanner.current.Lexeme), nil
}

// Returns the current token as a symbol character, fails on any other class.
func (scanner *Scanner) Symbol() (byte, error) {
	if scanner.current.Class != Symbol {
		return 0, fmt.Errorf("%w: expected a symbol, found %s '%s'", ErrIllegalToken, scanner.current.Class, scanner.current.Lexeme)
	}

	return scanner.current.Lexeme[0], nil
}

// Returns the current token as an identifier name, fails on any other class.
func (scanner *Scanner) Identifier() (string, error) {
	if scanner.current.Class != Identifier {
		return "", fmt.Errorf("%w: expected an identifier, found %s '%s'", ErrIllegalToken, scanner.current.Class, scanner.current.Lexeme)
	}

	return scanner.current.Lexeme, nil
}

// Returns the current token as an integer value, fails on any other class.
func (scanner *Scanner) IntVal() (int, error) {
	if scanner.current.Class != IntegerConstant {
		return 0, fmt.Errorf("%w: expected an integer constant, found %s '%s'", ErrIllegalToken, scanner.current.Class, scanner.current.Lexeme)
	}

	return strconv.Atoi(scanner.current.Lexeme)
}

// Returns the current token as the interior text of a string constant, fails on
// any other class.
func (scanner *Scanner) StringVal() (string, error) {
	if scanner.current.Class != StringConstant {
		return "", fmt.Errorf("%w: expected a string constant, found %s '%s'", ErrIllegalToken, scanner.current.Class, scanner.current.Lexeme)
	}

	return scanner.current.Lexeme, nil
}
