// Package scene is the server-side boundary of the scene composer. The
// composer itself (a 2D object graph) runs in the editor client; this side
// only checks that a document is well-formed JSON and carries it verbatim.
package scene

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrInvalidDocument = errors.New("invalid scene document")

// Document is a serialized scene. The raw text is kept byte-for-byte since
// it doubles as the deduplication fingerprint of a draft.
type Document struct {
	raw string
}

// ParseDocument accepts any syntactically valid JSON object.
func ParseDocument(raw string) (Document, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") || !json.Valid([]byte(trimmed)) {
		return Document{}, ErrInvalidDocument
	}
	return Document{raw: raw}, nil
}

func (d Document) String() string { return d.raw }

func (d Document) IsZero() bool { return d.raw == "" }

// Composer is what a scene composer exposes to the draft layer.
type Composer interface {
	Serialize() Document
	Deserialize(Document)
	Clear()
	RenderPreview(scale float64) string
}

// Snapshot is a headless Composer holding one document and its last
// rendered preview. It is what the server hands around when it needs a
// composer without a canvas.
type Snapshot struct {
	doc     Document
	preview string
}

func NewSnapshot(doc Document, preview string) *Snapshot {
	return &Snapshot{doc: doc, preview: preview}
}

func (s *Snapshot) Serialize() Document { return s.doc }

func (s *Snapshot) Deserialize(d Document) {
	s.doc = d
	s.preview = ""
}

func (s *Snapshot) Clear() {
	s.doc = Document{}
	s.preview = ""
}

// RenderPreview returns the stored preview. A headless snapshot cannot
// rasterize, so scale is ignored.
func (s *Snapshot) RenderPreview(float64) string { return s.preview }
