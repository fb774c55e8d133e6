package frontmatter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	openDelim     = []byte("---\n")
	openDelimCRLF = []byte("---\r\n")
	closeDelim    = []byte("\n---")
)

// Upsert returns a copy of doc with key set to value in the leading YAML
// frontmatter block. Every other key, its order and its comments are left
// untouched. If doc has no frontmatter block, one is created at the top.
// The document body after the block is preserved byte for byte.
func Upsert(doc []byte, key, value string) ([]byte, error) {
	block, body, ok := split(doc)
	if !ok {
		// No frontmatter — synthesize a minimal block above the body.
		var b bytes.Buffer
		fmt.Fprintf(&b, "---\n%s: %s\n---\n", key, value)
		b.Write(doc)
		return b.Bytes(), nil
	}

	updated, err := setKey(block, key, value)
	if err != nil {
		return nil, fmt.Errorf("frontmatter: %w", err)
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(updated)
	b.WriteString("---")
	b.Write(body)
	return b.Bytes(), nil
}

// split separates doc into the frontmatter block (without delimiters) and the
// remainder starting at the closing "---". ok is false when doc does not open
// with a frontmatter block. The closing delimiter must sit on its own line.
// Both LF and CRLF line endings are accepted; editors on Windows save CRLF.
func split(doc []byte) (block, body []byte, ok bool) {
	var blockStart int
	switch {
	case bytes.HasPrefix(doc, openDelim):
		blockStart = len(openDelim)
	case bytes.HasPrefix(doc, openDelimCRLF):
		blockStart = len(openDelimCRLF)
	default:
		return nil, nil, false
	}
	// Search from just after the opening "---" so an immediately following
	// closing line (empty block) is still found.
	for off := 3; ; {
		i := bytes.Index(doc[off:], closeDelim)
		if i < 0 {
			return nil, nil, false
		}
		nl := off + i                 // index of the "\n" before "---"
		after := nl + len(closeDelim) // first byte past the closing "---"
		if after == len(doc) || doc[after] == '\n' || doc[after] == '\r' {
			// block keeps its trailing newline (empty for an empty block).
			return doc[blockStart : nl+1], doc[after:], true
		}
		off = nl + 1
	}
}

// setKey parses block as a YAML mapping and sets key to value, preserving
// node order and comments. An empty block produces a single-entry mapping.
func setKey(block []byte, key, value string) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(block, &doc); err != nil {
		return nil, fmt.Errorf("parse block: %w", err)
	}

	var mapping *yaml.Node
	if len(doc.Content) > 0 && doc.Content[0].Kind == yaml.MappingNode {
		mapping = doc.Content[0]
	} else if len(doc.Content) == 0 {
		// Empty block ("---\n---").
		mapping = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{mapping}}
	} else {
		return nil, fmt.Errorf("block is %s, not a mapping", kindName(doc.Content[0].Kind))
	}

	// The tag is left implicit so timestamp-like values render unquoted,
	// the way vault frontmatter is conventionally written.
	valNode := &yaml.Node{Kind: yaml.ScalarNode, Value: value}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			// Keep any comment attached to the old value.
			valNode.LineComment = mapping.Content[i+1].LineComment
			mapping.Content[i+1] = valNode
			return encode(&doc)
		}
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		valNode,
	)
	return encode(&doc)
}

func encode(doc *yaml.Node) ([]byte, error) {
	var b bytes.Buffer
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode block: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode block: %w", err)
	}
	return b.Bytes(), nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.ScalarNode:
		return "a scalar"
	case yaml.AliasNode:
		return "an alias"
	default:
		return "an unexpected node"
	}
}
