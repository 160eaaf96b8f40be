package aml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const xmlDeclaration = `<?xml version="1.0" encoding="utf-8"?>`

// Write renders the document with tab indentation, an XML declaration, and a
// trailing newline. Output is fully determined by the node tree: writing the
// same tree twice yields byte-identical documents, which is what makes
// regenerated delete templates idempotent.
func Write(w io.Writer, root *Node) error {
	if root == nil {
		return fmt.Errorf("cannot write nil document")
	}
	if _, err := io.WriteString(w, xmlDeclaration+"\n"); err != nil {
		return err
	}
	if err := writeNode(w, root, 0); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile writes the document to path, creating parent directories as
// needed and overwriting any existing file.
func WriteFile(path string, root *Node) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	var sb strings.Builder
	if err := Write(&sb, root); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeNode(w io.Writer, n *Node, level int) error {
	indent := strings.Repeat("\t", level)

	var sb strings.Builder
	sb.WriteString(indent)
	sb.WriteString("<")
	sb.WriteString(n.Name)
	for _, a := range n.Attrs {
		sb.WriteString(" ")
		sb.WriteString(a.Name)
		sb.WriteString(`="`)
		sb.WriteString(escape(a.Value))
		sb.WriteString(`"`)
	}
	sb.WriteString(">")

	if len(n.Children) == 0 {
		// Leaf: text (possibly empty) and closing tag on the same line.
		// Empty elements render as <tag></tag>, never self-closing; the
		// loader's config reader expects paired tags.
		sb.WriteString(escape(n.Text))
		sb.WriteString("</")
		sb.WriteString(n.Name)
		sb.WriteString(">")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	sb.WriteString("\n")
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err
	}

	for _, c := range n.Children {
		if c.LeadingComment != "" {
			comment := fmt.Sprintf("%s<!-- %s -->\n", strings.Repeat("\t", level+1), c.LeadingComment)
			if _, err := io.WriteString(w, comment); err != nil {
				return err
			}
		}
		if err := writeNode(w, c, level+1); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, indent+"</"+n.Name+">")
	return err
}

func escape(s string) string {
	var sb strings.Builder
	if err := xml.EscapeText(&sb, []byte(s)); err != nil {
		return s
	}
	return sb.String()
}
