// validate.go: composable value validators
//
// Grounded on original_source's config/Validator.h: a validator is just
// a predicate, and the combinators (And/Or/Not) compose predicates
// rather than inheriting from a base class. The original's consteval
// template machinery (ValidatorAnd/Or/Not, CompareWith, oneOf, match,
// empty) has no equivalent in Go generics, so each combinator here
// is expressed as a plain closure over a Validator[T] function value.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package validate

import (
	"regexp"
)

// Validator is a named predicate over T, reported against in error
// messages via Name.
type Validator[T any] struct {
	Name string
	Test func(T) bool
}

// Check runs the validator, returning true if value passes.
func (v Validator[T]) Check(value T) bool {
	return v.Test(value)
}

// And combines two validators: both must pass.
func (v Validator[T]) And(other Validator[T]) Validator[T] {
	return Validator[T]{
		Name: "(" + v.Name + " and " + other.Name + ")",
		Test: func(value T) bool { return v.Test(value) && other.Test(value) },
	}
}

// Or combines two validators: at least one must pass.
func (v Validator[T]) Or(other Validator[T]) Validator[T] {
	return Validator[T]{
		Name: "(" + v.Name + " or " + other.Name + ")",
		Test: func(value T) bool { return v.Test(value) || other.Test(value) },
	}
}

// Not negates a validator.
func (v Validator[T]) Not() Validator[T] {
	return Validator[T]{
		Name: "not " + v.Name,
		Test: func(value T) bool { return !v.Test(value) },
	}
}

// Eq validates that the value equals want.
func Eq[T comparable](want T) Validator[T] {
	return Validator[T]{Name: "eq", Test: func(v T) bool { return v == want }}
}

// Gt validates that the value is strictly greater than bound.
func Gt[T cmpOrdered](bound T) Validator[T] {
	return Validator[T]{Name: "gt", Test: func(v T) bool { return v > bound }}
}

// Ge validates that the value is greater than or equal to bound.
func Ge[T cmpOrdered](bound T) Validator[T] {
	return Validator[T]{Name: "ge", Test: func(v T) bool { return v >= bound }}
}

// Lt validates that the value is strictly less than bound.
func Lt[T cmpOrdered](bound T) Validator[T] {
	return Validator[T]{Name: "lt", Test: func(v T) bool { return v < bound }}
}

// Le validates that the value is less than or equal to bound.
func Le[T cmpOrdered](bound T) Validator[T] {
	return Validator[T]{Name: "le", Test: func(v T) bool { return v <= bound }}
}

// OneOf validates that the value equals one of the given choices.
func OneOf[T comparable](choices ...T) Validator[T] {
	return Validator[T]{
		Name: "oneOf",
		Test: func(v T) bool {
			for _, c := range choices {
				if v == c {
					return true
				}
			}
			return false
		},
	}
}

// Empty validates that a string is empty.
func Empty() Validator[string] {
	return Validator[string]{Name: "empty", Test: func(v string) bool { return v == "" }}
}

// Match validates that a string fully matches the given regular
// expression.
func Match(pattern string) Validator[string] {
	re := regexp.MustCompile("^(?:" + pattern + ")$")
	return Validator[string]{Name: "match(" + pattern + ")", Test: re.MatchString}
}

// cmpOrdered mirrors the constraints.Ordered set this package needs;
// spelled out locally to avoid a dependency on golang.org/x/exp for
// four comparison operators.
type cmpOrdered interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~string
}
