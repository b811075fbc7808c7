// Package exchange reads and writes trees as JSON, YAML or TOML documents.
//
// The document mirrors the node and edge record shape, so field names and
// enum values are the external contract. Imports are checked against the
// graph invariants (unique ids, no dangling edges, known enum values) and
// nothing else.
package exchange

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	gotoml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/skilltree/errors"
	"github.com/teranos/skilltree/graph"
)

// Format names a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported encodings.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML}

// DocumentVersion is written into every exported document.
const DocumentVersion = "1.0.0"

// compatibleVersions are the document versions Import understands.
const compatibleVersions = "^1"

// Document is the on-disk form of a tree.
type Document struct {
	Version string       `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	Name    string       `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Nodes   []graph.Node `json:"nodes" yaml:"nodes" toml:"nodes"`
	Edges   []graph.Edge `json:"edges" yaml:"edges" toml:"edges"`
}

// NewDocument wraps a snapshot.
func NewDocument(name string, snap graph.Snapshot) Document {
	snap = snap.Clone()
	return Document{Version: DocumentVersion, Name: name, Nodes: snap.Nodes, Edges: snap.Edges}
}

// Snapshot returns the document's graph.
func (d Document) Snapshot() graph.Snapshot {
	return graph.Snapshot{Nodes: d.Nodes, Edges: d.Edges}.Clone()
}

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", errors.WithHint(
			errors.NewInvalidRequestError("unknown format %q", s),
			"formats are: json, yaml, toml")
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errors.WithHint(
			errors.NewInvalidRequestError("cannot infer format of %q", path),
			"use a .json, .yaml or .toml extension, or pass --format")
	}
	return ParseFormat(ext)
}

// Export writes doc to w.
func Export(w io.Writer, doc Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(doc), "failed to encode JSON")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(err, "failed to encode YAML")
		}
		return errors.Wrap(enc.Close(), "failed to flush YAML")
	case FormatTOML:
		enc := gotoml.NewEncoder(w)
		enc.SetIndentTables(true)
		return errors.Wrap(enc.Encode(doc), "failed to encode TOML")
	default:
		_, err := ParseFormat(string(format))
		return err
	}
}

// Import reads a document from r and validates it.
func Import(r io.Reader, format Format) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, errors.Wrap(err, "failed to read document")
	}

	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return Document{}, errors.Wrap(err, "failed to decode JSON")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && err != io.EOF {
			return Document{}, errors.Wrap(err, "failed to decode YAML")
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return Document{}, errors.Wrap(err, "failed to decode TOML")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Document{}, errors.WithHint(
				errors.NewInvalidRequestError("unknown TOML key %q", undecoded[0].String()),
				"check the field names against an exported tree")
		}
	default:
		_, err := ParseFormat(string(format))
		return Document{}, err
	}

	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// checkVersion accepts documents without a version (hand-written ones) and
// any version matching compatibleVersions.
func (d Document) checkVersion() error {
	if d.Version == "" {
		return nil
	}
	v, err := semver.NewVersion(d.Version)
	if err != nil {
		return errors.WithHint(
			errors.NewInvalidRequestError("invalid document version %q", d.Version),
			"versions look like 1.0.0")
	}
	constraint, err := semver.NewConstraint(compatibleVersions)
	if err != nil {
		return errors.Wrap(err, "invalid version constraint")
	}
	if !constraint.Check(v) {
		return errors.WithHintf(
			errors.NewInvalidRequestError("document version %s is not supported", v),
			"this build reads document versions %s", compatibleVersions)
	}
	return nil
}

// Validate checks the document version, enum values and the structural
// invariants. Missing enum values are allowed and take their defaults when
// loaded.
func (d Document) Validate() error {
	if err := d.checkVersion(); err != nil {
		return err
	}
	for _, n := range d.Nodes {
		if n.Role != "" && !n.Role.Valid() {
			return invalidField(n.ID, "role", string(n.Role))
		}
		if n.Shape != "" && !n.Shape.Valid() {
			return invalidField(n.ID, "shape", string(n.Shape))
		}
		if n.LinkStyle != "" && !n.LinkStyle.Valid() {
			return invalidField(n.ID, "linkStyle", string(n.LinkStyle))
		}
	}
	for i, e := range d.Edges {
		if e.Style != "" && !e.Style.Valid() {
			return errors.NewInvalidRequestError("edge %d (%s -> %s): unknown style %q", i, e.From, e.To, e.Style)
		}
	}
	if _, err := graph.FromSnapshot(d.Snapshot()); err != nil {
		return errors.Wrap(err, "invalid tree")
	}
	return nil
}

func invalidField(id, field, value string) error {
	return errors.NewInvalidRequestError("node %q: unknown %s %q", id, field, value)
}
