package jack_test

import (
	"bytes"
	"strings"
	"testing"

	"its-hmny.dev/jackanalyzer/pkg/jack"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuralTags(t *testing.T) {
	var output bytes.Buffer
	emitter := jack.NewEmitter(&output)

	// Nesting deepens the indentation by two blanks per open element
	require.NoError(t, emitter.WriteStartTag("class"))
	require.NoError(t, emitter.WriteStartTag("subroutineDec"))
	require.NoError(t, emitter.WriteStartTag("parameterList"))
	require.NoError(t, emitter.WriteEndTag("parameterList"))
	require.NoError(t, emitter.WriteEndTag("subroutineDec"))
	require.NoError(t, emitter.WriteEndTag("class"))

	expected := strings.Join([]string{
		"<class>",
		"  <subroutineDec>",
		"    <parameterList>",
		"    </parameterList>",
		"  </subroutineDec>",
		"</class>",
		"",
	}, "\n")
	assert.Equal(t, expected, output.String())
}

func TestStructuralTagsCloseInLIFOOrder(t *testing.T) {
	emitter := jack.NewEmitter(&bytes.Buffer{})

	require.NoError(t, emitter.WriteStartTag("class"))
	require.NoError(t, emitter.WriteStartTag("subroutineDec"))

	// Closing an outer element while an inner one is still open is a bug in
	// the caller and must be refused
	assert.Error(t, emitter.WriteEndTag("class"))

	require.NoError(t, emitter.WriteEndTag("subroutineDec"))
	require.NoError(t, emitter.WriteEndTag("class"))

	// Nothing is left to close at depth zero
	assert.Error(t, emitter.WriteEndTag("class"))
}

func TestTerminalWrites(t *testing.T) {
	var output bytes.Buffer
	scanner, err := jack.NewScanner(strings.NewReader(`let count = "total: " ; 42`))
	require.NoError(t, err)

	emitter := jack.NewEmitter(&output)
	require.NoError(t, emitter.WriteKeyword(scanner, jack.Let))
	require.NoError(t, emitter.WriteIdentifier(scanner))
	require.NoError(t, emitter.WriteSymbol(scanner))
	require.NoError(t, emitter.WriteStringConstant(scanner))
	require.NoError(t, emitter.WriteSymbol(scanner))
	require.NoError(t, emitter.WriteIntegerConstant(scanner))

	expected := strings.Join([]string{
		"<keyword> let </keyword>",
		"<identifier> count </identifier>",
		"<symbol> = </symbol>",
		"<stringConstant> total:  </stringConstant>",
		"<symbol> ; </symbol>",
		"<integerConstant> 42 </integerConstant>",
		"",
	}, "\n")
	assert.Equal(t, expected, output.String())
}

func TestTerminalWritesValidateTheTokenClass(t *testing.T) {
	t.Run("keyword outside the expected set", func(t *testing.T) {
		scanner, err := jack.NewScanner(strings.NewReader("while"))
		require.NoError(t, err)

		var output bytes.Buffer
		emitter := jack.NewEmitter(&output)
		// 'while' is a keyword but not one of the storage kinds
		assert.ErrorIs(t, emitter.WriteKeyword(scanner, jack.Static, jack.Field), jack.ErrIllegalToken)
		assert.Empty(t, output.String(), "nothing is written on a mismatch")
	})

	t.Run("wrong class entirely", func(t *testing.T) {
		scanner, err := jack.NewScanner(strings.NewReader("count"))
		require.NoError(t, err)

		emitter := jack.NewEmitter(&bytes.Buffer{})
		assert.ErrorIs(t, emitter.WriteKeyword(scanner, jack.Let), jack.ErrIllegalToken)
	})

	t.Run("end of input", func(t *testing.T) {
		scanner, err := jack.NewScanner(strings.NewReader(""))
		require.NoError(t, err)

		emitter := jack.NewEmitter(&bytes.Buffer{})
		assert.ErrorIs(t, emitter.WriteIdentifier(scanner), jack.ErrIllegalToken)
	})
}

func TestSymbolEscaping(t *testing.T) {
	var output bytes.Buffer
	scanner, err := jack.NewScanner(strings.NewReader("< > & + ~"))
	require.NoError(t, err)

	emitter := jack.NewEmitter(&output)
	for i := 0; i < 5; i++ {
		require.NoError(t, emitter.WriteSymbol(scanner))
	}

	expected := strings.Join([]string{
		"<symbol> &lt; </symbol>",
		"<symbol> &gt; </symbol>",
		"<symbol> &amp; </symbol>",
		"<symbol> + </symbol>",
		"<symbol> ~ </symbol>",
		"",
	}, "\n")
	assert.Equal(t, expected, output.String())
}

func TestWriteTokens(t *testing.T) {
	var output bytes.Buffer
	scanner, err := jack.NewScanner(strings.NewReader(`while (i < 100) { let s = "hi"; }`))
	require.NoError(t, err)

	emitter := jack.NewEmitter(&output)
	require.NoError(t, emitter.WriteTokens(scanner))
	assert.False(t, scanner.HasMoreTokens())

	// The flat document has no indentation at all on its children
	expected := strings.Join([]string{
		"<tokens>",
		"<keyword> while </keyword>",
		"<symbol> ( </symbol>",
		"<identifier> i </identifier>",
		"<symbol> &lt; </symbol>",
		"<integerConstant> 100 </integerConstant>",
		"<symbol> ) </symbol>",
		"<symbol> { </symbol>",
		"<keyword> let </keyword>",
		"<identifier> s </identifier>",
		"<symbol> = </symbol>",
		"<stringConstant> hi </stringConstant>",
		"<symbol> ; </symbol>",
		"<symbol> } </symbol>",
		"</tokens>",
		"",
	}, "\n")
	assert.Equal(t, expected, output.String())
}
