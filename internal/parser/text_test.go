package parser

import (
	"strings"
	"testing"
)

func TestTextParser_BasicParagraphs(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tree.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", tree.Title)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(tree.Children))
	}
	if tree.Text() != input {
		t.Errorf("expected text %q, got %q", input, tree.Text())
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", tree.Title)
	}
	if len(tree.Children) != 0 {
		t.Errorf("expected 0 children for empty input, got %d", len(tree.Children))
	}
	if tree.Text() != "" {
		t.Errorf("expected empty text, got %q", tree.Text())
	}
}

func TestTextParser_SingleLine(t *testing.T) {
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader("Hello world"), "single.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Text() != "Hello world" {
		t.Errorf("expected %q, got %q", "Hello world", tree.Text())
	}
}

func TestTextParser_MultipleBlankLines(t *testing.T) {
	// Runs of blank lines collapse to one paragraph break.
	input := "Para one.\n\n\n\nPara two."
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "gaps.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Text() != "Para one.\n\nPara two." {
		t.Errorf("unexpected text %q", tree.Text())
	}
}

func TestTextParser_WhitespaceOnlyLines(t *testing.T) {
	input := "Para one.\n   \nPara two."
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Text() != "Para one.\n\nPara two." {
		t.Errorf("unexpected text %q", tree.Text())
	}
}

func TestTextParser_WhitespaceOnlyFile(t *testing.T) {
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader("  \n\t\n   "), "blank.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(tree.Text()) != "" {
		t.Errorf("expected no text, got %q", tree.Text())
	}
}

func TestTextParser_WindowsLineEndings(t *testing.T) {
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader("Line one.\r\nLine two.\r\n\r\nNext.\r\n"), "dos.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Text() != "Line one.\nLine two.\n\nNext." {
		t.Errorf("unexpected text %q", tree.Text())
	}
}
