package actions

import "reflect"

// ErrorPolicy decides whether an action built from a payload is an error action.
// Only Fixed and Predicate implement it.
type ErrorPolicy interface {
	classify(payload any) bool
}

type fixedPolicy bool

func (p fixedPolicy) classify(any) bool { return bool(p) }

type predicatePolicy func(any) bool

func (p predicatePolicy) classify(payload any) bool { return p(payload) }

// Fixed flags every action of the creator as an error, or none of them.
func Fixed(isError bool) ErrorPolicy {
	return fixedPolicy(isError)
}

// Predicate classifies each payload with fn.
// Payloads that are not of type P are never errors.
func Predicate[P any](fn func(P) bool) ErrorPolicy {
	return predicatePolicy(func(payload any) bool {
		p, ok := payload.(P)
		return ok && fn(p)
	})
}

// IsErrorLike reports whether payload is a non-nil error.
// A nil pointer of an error type is not error-like.
// It is the default classifier of a Factory.
func IsErrorLike(payload any) bool {
	err, ok := payload.(error)
	if !ok || err == nil {
		return false
	}
	switch v := reflect.ValueOf(err); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return !v.IsNil()
	default:
		return true
	}
}
