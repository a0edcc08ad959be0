package actions

import (
	"maps"
)

// ActionCreator builds actions of a single fully-qualified type.
// The zero value is not usable; obtain creators from NewCreator.
type ActionCreator[P any] struct {
	typ        string
	commonMeta Meta
	isError    func(any) bool
}

// CreatorOption configures a single creator.
type CreatorOption func(*creatorOptions)

type creatorOptions struct {
	commonMeta Meta
	policy     ErrorPolicy
}

// WithMeta sets metadata merged into every action of the creator.
// Per-call metadata overrides keys of meta.
func WithMeta(meta Meta) CreatorOption {
	return func(o *creatorOptions) {
		o.commonMeta = meta
	}
}

// WithErrorPolicy overrides the factory default classifier for this creator.
func WithErrorPolicy(policy ErrorPolicy) CreatorOption {
	return func(o *creatorOptions) {
		o.policy = policy
	}
}

// NewCreator registers typ on f and returns its creator.
// It fails with a *DuplicateActionTypeError when the fully-qualified type
// is already registered and duplicate checking is enabled.
func NewCreator[P any](f *Factory, typ string, opts ...CreatorOption) (ActionCreator[P], error) {
	var o creatorOptions
	for _, opt := range opts {
		opt(&o)
	}

	fullType := f.FullType(typ)
	if err := f.register(fullType); err != nil {
		return ActionCreator[P]{}, err
	}

	isError := f.defaultIsError
	if o.policy != nil {
		isError = o.policy.classify
	}

	return ActionCreator[P]{
		typ:        fullType,
		commonMeta: maps.Clone(o.commonMeta),
		isError:    isError,
	}, nil
}

// MustNewCreator is like NewCreator but panics on error.
func MustNewCreator[P any](f *Factory, typ string, opts ...CreatorOption) ActionCreator[P] {
	ac, err := NewCreator[P](f, typ, opts...)
	if err != nil {
		panic(err)
	}
	return ac
}

// Type returns the fully-qualified type of the creator.
func (ac ActionCreator[P]) Type() string {
	return ac.typ
}

// New builds an action carrying payload.
// Meta is set only when the creator has common metadata or meta is given.
func (ac ActionCreator[P]) New(payload P, meta ...Meta) Action[P] {
	action := Action[P]{
		Type:    ac.typ,
		Payload: payload,
	}

	if merged := mergeMeta(append([]Meta{ac.commonMeta}, meta...)...); merged != nil {
		action.Meta = merged
	}

	if ac.isError != nil && ac.isError(payload) {
		action.Error = true
	}

	return action
}

// Match reports whether a was built by a creator of the same type.
func (ac ActionCreator[P]) Match(a AnyAction) bool {
	return a != nil && a.ActionType() == ac.typ
}

// Cast narrows a to the payload type of the creator.
func (ac ActionCreator[P]) Cast(a AnyAction) (Action[P], bool) {
	if !ac.Match(a) {
		return Action[P]{}, false
	}
	switch a := a.(type) {
	case Action[P]:
		return a, true
	case *Action[P]:
		if a != nil {
			return *a, true
		}
	}
	return Action[P]{}, false
}

// IsType reports whether action has the type of creator.
func IsType[P any](action AnyAction, creator ActionCreator[P]) bool {
	return creator.Match(action)
}

// AsType is IsType that also narrows action to Action[P].
func AsType[P any](action AnyAction, creator ActionCreator[P]) (Action[P], bool) {
	return creator.Cast(action)
}
