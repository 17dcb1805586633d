// Package cache persists the documentation map between runs. The on-disk
// form is a zstd-compressed JSON document: a file-level version tag, then
// namespaces carrying their methods as versioned positional tuples.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/phobologic/rbdoc/internal/comment"
	"github.com/phobologic/rbdoc/internal/index"
	"github.com/phobologic/rbdoc/internal/record"
)

// FileVersion tags the cache document layout.
const FileVersion = 1

type fileDoc struct {
	Version    int              `json:"version"`
	Repo       string           `json:"repo"`
	Namespaces []namespaceEntry `json:"namespaces"`
}

type namespaceEntry struct {
	FullName   string            `json:"fullName"`
	Kind       index.Kind        `json:"kind"`
	Superclass string            `json:"superclass,omitempty"`
	Comment    *comment.Comment  `json:"comment,omitempty"`
	Methods    []json.RawMessage `json:"methods"`
}

// Save writes the map to path, exporting every method through p.
func Save(path string, m *index.Map, p record.CommentParser) error {
	doc := fileDoc{Version: FileVersion, Repo: m.RepoName}

	for _, ns := range m.Namespaces() {
		entry := namespaceEntry{
			FullName:   ns.FullName(),
			Kind:       ns.Kind,
			Superclass: ns.Superclass,
			Methods:    make([]json.RawMessage, 0, len(ns.Methods)),
		}
		if c := ns.Comment; !c.Empty() {
			entry.Comment = c
		} else if ns.RawComment != "" {
			entry.Comment = p.Parse(ns.RawComment)
		}
		for _, meth := range ns.Methods {
			tuple, err := meth.Export(p)
			if err != nil {
				return err
			}
			entry.Methods = append(entry.Methods, tuple)
		}
		doc.Namespaces = append(doc.Namespaces, entry)
	}

	plain, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("cache compressor: %w", err)
	}
	packed := enc.EncodeAll(plain, make([]byte, 0, len(plain)/2))
	_ = enc.Close()

	if err := os.WriteFile(path, packed, 0o644); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// Load rebuilds a documentation map from the cache at path. Records are
// reconstructed through the import path with a fresh fragment sequence, so
// fragment IDs restart at the seed rather than carrying over.
func Load(path, root string) (*index.Map, error) {
	packed, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("cache decompressor: %w", err)
	}
	defer dec.Close()
	plain, err := dec.DecodeAll(packed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing cache: %w", err)
	}

	var doc fileDoc
	if err := json.Unmarshal(plain, &doc); err != nil {
		return nil, fmt.Errorf("decoding cache: %w", err)
	}
	if doc.Version != FileVersion {
		return nil, fmt.Errorf("cache file version %d: %w", doc.Version, record.ErrUnsupportedFormat)
	}

	m := index.NewMap(doc.Repo, root)
	seq := record.NewFragmentSeq()

	for _, entry := range doc.Namespaces {
		ns := m.Ensure(entry.FullName, entry.Kind)
		ns.Superclass = entry.Superclass
		ns.Comment = entry.Comment
		for _, tuple := range entry.Methods {
			meth := record.New(seq, nil, "")
			if err := meth.Import(tuple, record.NewAlias); err != nil {
				return nil, fmt.Errorf("cache namespace %s: %w", entry.FullName, err)
			}
			ns.AddMethod(meth)
		}
	}

	return m, nil
}

// Fresh reports whether the cache at path is newer than every source file.
func Fresh(path, root string, files []string) bool {
	cacheInfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	cacheMtime := cacheInfo.ModTime()

	for _, f := range files {
		fi, err := os.Stat(filepath.Join(root, f))
		if err != nil {
			return false
		}
		if !fi.ModTime().Before(cacheMtime) {
			return false
		}
	}
	return true
}
