package docs

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/etnz/cartera"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// fenced block info strings checked by TestCodeBlocks.
const (
	ledgerBlock = "jsonl ledger"
	pricesBlock = "jsonl prices"
	jsonBlock   = "json"
)

// TestTopics checks that readme.md lists exactly the embedded topics.
func TestTopics(t *testing.T) {
	content, err := os.ReadFile("readme.md")
	if err != nil {
		t.Fatalf("failed to read readme.md: %v", err)
	}
	var listed []string
	for _, m := range regexp.MustCompile(`(?m)^\*\s+([^:]+):`).FindAllStringSubmatch(string(content), -1) {
		listed = append(listed, strings.TrimSpace(m[1]))
	}

	topics, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	slices.Sort(listed)
	if !slices.Equal(listed, topics) {
		t.Errorf("readme.md lists %v, want the embedded topics %v", listed, topics)
	}

	for _, topic := range listed {
		if _, err := GetTopic(topic); err != nil {
			t.Errorf("GetTopic(%q) failed: %v", topic, err)
		}
	}
	if _, err := GetTopic("nope"); err == nil {
		t.Error(`GetTopic("nope") succeeded`)
	}

	all, err := GetTopics("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range topics {
		one, _ := GetTopic(topic)
		if !strings.Contains(all, one) {
			t.Errorf(`GetTopics("*") misses topic %q`, topic)
		}
	}
}

func TestCodeBlocks(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	files = append(files, "../README.md")

	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			for _, block := range parseMarkdown(t, file) {
				checkBlock(t, block)
			}
		})
	}
}

// HELPER

// Block represents a fenced code block in the markdown file.
type Block struct {
	Type    string
	Content string
	File    string
	Line    int
}

// parseMarkdown parses a markdown file and returns its checked Blocks.
func parseMarkdown(t *testing.T, file string) []*Block {
	t.Helper()

	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}

	mdParser := goldmark.DefaultParser()
	root := mdParser.Parse(text.NewReader(content))

	var blocks []*Block

	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if fcb, ok := n.(*ast.FencedCodeBlock); ok {
			if fcb.Info == nil {
				return ast.WalkContinue, nil
			}
			lang := string(fcb.Info.Segment.Value(content))

			var blockContent strings.Builder
			for i := 0; i < fcb.Lines().Len(); i++ {
				line := fcb.Lines().At(i)
				blockContent.WriteString(string(line.Value(content)))
			}

			switch lang {
			case ledgerBlock, pricesBlock, jsonBlock:
				blocks = append(blocks, &Block{
					Type:    lang,
					Content: blockContent.String(),
					File:    file,
					Line:    lineNumber(content, fcb.Info.Segment.Start),
				})
			}
		}
		return ast.WalkContinue, nil
	})

	return blocks
}

// lineNumber computes the lineNumber for a given offset AST offset.
// the markdown parser we use does not support that feature so we
// have to implement it.
func lineNumber(source []byte, offset int) (lineNumber int) {
	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}

// checkBlock decodes an example the way the CLI would.
func checkBlock(t *testing.T, block *Block) {
	t.Helper()
	switch block.Type {
	case ledgerBlock:
		ledger, err := cartera.DecodeLedger(strings.NewReader(block.Content))
		if err != nil {
			t.Errorf("%s:%d: invalid ledger: %v", block.File, block.Line, err)
			return
		}
		if err := ledger.Validate(); err != nil {
			t.Errorf("%s:%d: invalid transactions: %v", block.File, block.Line, err)
		}
		if ledger.Len() == 0 {
			t.Errorf("%s:%d: empty ledger example", block.File, block.Line)
		}
	case pricesBlock:
		prices, err := cartera.DecodePrices(strings.NewReader(block.Content))
		if err != nil {
			t.Errorf("%s:%d: invalid prices: %v", block.File, block.Line, err)
			return
		}
		if len(prices) == 0 {
			t.Errorf("%s:%d: empty prices example", block.File, block.Line)
		}
	case jsonBlock:
		if !json.Valid([]byte(block.Content)) {
			t.Errorf("%s:%d: invalid json", block.File, block.Line)
		}
	}
}
