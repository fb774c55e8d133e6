// Package frontmatter reads and rewrites the YAML metadata block at the top
// of markdown documents.
//
// Upsert(doc, key, value) sets exactly one key in the leading "---" block,
// preserving every other key, their order and their comments via the yaml.v3
// node API. Documents without a block get one synthesized at the top; the
// body below the block is never touched.
//
// Store binds Upsert to a vault directory on disk. SetKey resolves a
// vault-relative path, applies the mutation and replaces the file atomically
// (temp + rename), which matters because the same directory is under a
// filesystem watcher: readers see either the old or the new document, never
// a partial write.
package frontmatter
