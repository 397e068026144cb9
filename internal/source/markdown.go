package source

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Options controls how markdown is flattened.
type Options struct {
	// IncludeCode keeps the contents of code blocks. They are dropped by
	// default since they rarely read well aloud.
	IncludeCode bool
}

var md = goldmark.New()

// MarkdownToText renders markdown as plain prose: one paragraph per block,
// separated by blank lines, with all inline markup removed.
func MarkdownToText(src []byte, opts Options) string {
	doc := md.Parser().Parse(text.NewReader(src))

	var blocks []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := n.(type) {
		case *ast.Paragraph, *ast.Heading, *ast.TextBlock:
			var b strings.Builder
			inlineText(n, src, &b)
			if s := strings.TrimSpace(b.String()); s != "" {
				blocks = append(blocks, s)
			}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if opts.IncludeCode {
				if s := strings.TrimSpace(blockLines(n, src)); s != "" {
					blocks = append(blocks, s)
				}
			}
			return ast.WalkSkipChildren, nil

		case *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	return strings.Join(blocks, "\n\n")
}

func inlineText(n ast.Node, src []byte, b *strings.Builder) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			switch {
			case t.HardLineBreak():
				b.WriteByte('\n')
			case t.SoftLineBreak():
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.Label(src))
		case *ast.RawHTML:
		default:
			inlineText(c, src, b)
		}
	}
}

func blockLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}
