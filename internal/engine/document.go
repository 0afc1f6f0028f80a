package engine

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/geoedit/internal/event"
	"github.com/dshills/geoedit/internal/engine/feature"
)

// ChangePayload is published on document.change whenever the document
// reaches a parseable state. JSON holds the emitted feature array with
// hidden features filtered out.
type ChangePayload struct {
	JSON       string
	Count      int
	Valid      bool
	Validation []feature.Error
}

// ErrorPayload is published on document.error when canonicalization fails.
// Content carries the tolerant-formatted text so the host can show it.
type ErrorPayload struct {
	Message string
	Content string
}

// SetFeatures loads a document from JSON text: a FeatureCollection object,
// a bare feature array, or a single feature object. Invalid JSON still
// loads into the buffer, tolerant-formatted and editable, but resolves to
// ErrInvalidDocument.
func (e *Engine) SetFeatures(doc string) error {
	defer e.flush()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}

	inner, err := innerList(doc)
	if err != nil {
		inner = strings.TrimSpace(doc)
	}
	e.buf.SetText(inner)
	e.hist.Clear()
	e.folds.Clear()
	e.hidden = make(map[string]bool)
	e.wantAutofold = err == nil
	e.reformatLocked()
	e.log.Debug("document loaded, %d features", e.feats.Len())
	return err
}

// LoadReader loads a document from a byte stream.
func (e *Engine) LoadReader(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}
	return e.SetFeatures(string(data))
}

// Features returns the full feature array as pretty-printed JSON,
// regardless of visibility filters. It returns "" while a parse error is
// pending.
func (e *Engine) Features() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.parseErr != nil {
		return ""
	}
	return string(pretty.Pretty([]byte("[" + e.buf.Text() + "]")))
}

// FeatureKeys returns the content-stable keys of all features in document
// order.
func (e *Engine) FeatureKeys() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	spans := e.feats.Spans()
	keys := make([]string, len(spans))
	for i, s := range spans {
		keys[i] = s.Key
	}
	return keys
}

// SetFeatureVisible includes or excludes the keyed feature from emitted
// change payloads. The buffer itself is untouched; hidden features remain
// editable and are still returned by Features.
func (e *Engine) SetFeatureVisible(key string, visible bool) {
	defer e.flush()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if visible {
		delete(e.hidden, key)
	} else {
		e.hidden[key] = true
	}
	if e.parseErr == nil {
		e.queueChangeLocked()
	}
}

// queueChangeLocked builds and queues a document.change event from the
// current buffer.
func (e *Engine) queueChangeLocked() {
	count := 0
	for _, s := range e.feats.Spans() {
		if !e.hidden[s.Key] {
			count++
		}
	}
	e.queue(event.TopicChange, ChangePayload{
		JSON:       e.visibleJSONLocked(),
		Count:      count,
		Valid:      len(e.valErrs) == 0,
		Validation: e.valErrs,
	})
}

// visibleJSONLocked renders the feature array with hidden features deleted,
// walking indices backward so deletions do not shift later ones.
func (e *Engine) visibleJSONLocked() string {
	doc := "[" + e.buf.Text() + "]"
	spans := e.feats.Spans()
	for i := len(spans) - 1; i >= 0; i-- {
		if e.hidden[spans[i].Key] {
			doc, _ = sjson.Delete(doc, strconv.Itoa(i))
		}
	}
	return string(pretty.Pretty([]byte(doc)))
}

// innerList extracts the bare comma-separated feature list from a document:
// the enclosing array brackets are stripped, a FeatureCollection is reduced
// to its features array, and a single object passes through unchanged.
func innerList(doc string) (string, error) {
	text := strings.TrimSpace(doc)
	if text == "" {
		return "", nil
	}
	if !gjson.Valid(text) {
		return "", ErrInvalidDocument
	}
	root := gjson.Parse(text)
	if root.IsObject() {
		if root.Get("type").String() != "FeatureCollection" {
			return text, nil
		}
		feats := root.Get("features")
		if !feats.IsArray() {
			return "", ErrInvalidDocument
		}
		root = feats
	}
	if !root.IsArray() {
		return "", ErrInvalidDocument
	}
	raw := strings.TrimSpace(root.Raw)
	return strings.TrimSpace(raw[1 : len(raw)-1]), nil
}
