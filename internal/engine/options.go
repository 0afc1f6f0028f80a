package engine

import (
	"github.com/dshills/geoedit/internal/clipboard"
	"github.com/dshills/geoedit/internal/config"
)

// CollapseRoot is the sentinel collapse attribute that folds each whole
// feature object rather than an attribute inside it.
const CollapseRoot = "$root"

// CollapseFunc decides per feature which attributes to fold after load. It
// receives the feature's JSON text and returns attribute names, optionally
// including CollapseRoot.
type CollapseFunc func(featureJSON string) []string

// Option configures an Engine during construction.
type Option func(*Engine)

// WithConfig replaces the default configuration.
func WithConfig(cfg config.Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithClipboard replaces the in-process clipboard, typically with the
// system clipboard when the host runs attached to a desktop session.
func WithClipboard(c clipboard.Clipboard) Option {
	return func(e *Engine) {
		if c != nil {
			e.clip = c
		}
	}
}

// WithCollapse sets the static attribute list folded after load, overriding
// the configured list.
func WithCollapse(attrs ...string) Option {
	return func(e *Engine) {
		e.collapseAttrs = attrs
	}
}

// WithCollapseFunc sets a per-feature collapse callback. It takes
// precedence over any static attribute list.
func WithCollapseFunc(fn CollapseFunc) Option {
	return func(e *Engine) {
		e.collapseFunc = fn
	}
}

// WithLogger replaces the default logger.
func WithLogger(l *Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithSynchronous makes deferred work (reformat debounce, collapse-on-load,
// render notification) run inline instead of on timers. Tests and headless
// batch hosts use this for determinism.
func WithSynchronous() Option {
	return func(e *Engine) {
		e.sync = true
	}
}
