package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"its-hmny.dev/jackanalyzer/pkg/jack"

	"github.com/teris-io/cli"
)

var Description = strings.ReplaceAll(`
The Jack Analyzer parses programs (composed of multiple classes/files) written in the
Jack language and mirrors their syntactic structure as XML documents. For each input
class file the analyzer emits either the flat stream of classified tokens or the full
parse tree produced by recursive descent over the Jack grammar.
`, "\n", " ")

var JackAnalyzer = cli.New(Description).
	// 'AsOptional()' allows to have more than one input .jack file or directory
	WithArg(cli.NewArg("inputs", "The source (.jack) files to be analyzed").
		AsOptional().WithType(cli.TypeString)).
	WithOption(cli.NewOption("tokens", "Emits the flat token stream instead of the parse tree").
		WithType(cli.TypeBool)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Printf("ERROR: Not enough arguments provided, use --help\n")
		return -1
	}

	// The aggregation of all the Translation Units (TUs) found during the input walk (just the
	// paths). Every TU is one Jack class and is analyzed on its own: a failure on one file is
	// reported and doesn't stop the remaining ones, but the whole run exits with an error status.
	TUs := []string{}

	for _, input := range args {
		filepath.Walk(input, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || filepath.Ext(path) != ".jack" {
				return nil // We recurse on dirs and ignore other filetypes
			}

			TUs = append(TUs, path)
			return nil
		})
	}

	_, tokensOnly := options["tokens"]

	status := 0
	for _, tu := range TUs {
		if err := Analyze(tu, tokensOnly); err != nil {
			fmt.Printf("ERROR: Unable to complete 'analysis' pass on '%s': %s\n", tu, err)
			status = -1
		}
	}

	return status
}

// Runs the analysis pipeline on a single translation unit: the source is slurped
// and released, the token queue is extracted by the scanner and then serialized
// to the sibling .xml file either as a flat '<tokens>' document or as the parse
// tree rooted at '<class>'.
func Analyze(input string, tokensOnly bool) error {
	content, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("unable to open input file: %s", err)
	}

	// Instantiate a scanner for the Jack class, comment stripping and
	// tokenization happen upfront so lexical errors surface before any
	// output file is created
	scanner, err := jack.NewScanner(bytes.NewReader(content))
	if err != nil {
		return err
	}

	// Removes the file extension to derive the sibling output path
	output, err := os.Create(strings.TrimSuffix(input, filepath.Ext(input)) + ".xml")
	if err != nil {
		return fmt.Errorf("unable to open output file: %s", err)
	}
	defer output.Close()

	emitter := jack.NewEmitter(output)
	if tokensOnly {
		return emitter.WriteTokens(scanner)
	}

	parser := jack.NewParser(scanner, emitter)
	return parser.ParseClass()
}

func main() { os.Exit(JackAnalyzer.Run(os.Args, os.Stdout)) }
