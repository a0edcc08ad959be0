package actions

import (
	"sync"
)

const typeDelimiter = "/"

// Factory hands out action creators sharing a prefix and a default error classifier.
// A Factory must not be copied after first use.
type Factory struct {
	prefix         string
	defaultIsError func(any) bool
	checkDuplicate bool

	// registry holds the fully-qualified types seen so far. Keys are never removed.
	registry sync.Map
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithPrefix prepends prefix and "/" to every type of the factory.
// An empty prefix leaves types untouched.
func WithPrefix(prefix string) FactoryOption {
	return func(f *Factory) {
		f.prefix = prefix
	}
}

// WithDefaultIsError replaces IsErrorLike as the classifier used by
// creators that have no ErrorPolicy of their own.
func WithDefaultIsError(isError func(any) bool) FactoryOption {
	return func(f *Factory) {
		if isError != nil {
			f.defaultIsError = isError
		}
	}
}

// WithDuplicateCheck turns duplicate type detection on or off.
//
// Detection is on by default. With detection off the factory does not
// record types at all, so registering the same type twice succeeds and
// both creators produce identical actions.
func WithDuplicateCheck(enabled bool) FactoryOption {
	return func(f *Factory) {
		f.checkDuplicate = enabled
	}
}

// Production disables duplicate type detection.
func Production() FactoryOption {
	return WithDuplicateCheck(false)
}

// NewFactory creates a factory with its own, empty registry.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{
		defaultIsError: IsErrorLike,
		checkDuplicate: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Prefix returns the prefix of the factory, possibly empty.
func (f *Factory) Prefix() string {
	return f.prefix
}

// FullType returns t joined to the factory prefix.
func (f *Factory) FullType(t string) string {
	if f.prefix == "" {
		return t
	}
	return f.prefix + typeDelimiter + t
}

// register records fullType, failing if it was recorded before.
func (f *Factory) register(fullType string) error {
	if !f.checkDuplicate {
		return nil
	}
	if _, loaded := f.registry.LoadOrStore(fullType, true); loaded {
		return &DuplicateActionTypeError{Type: fullType}
	}
	return nil
}
