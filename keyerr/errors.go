// Package keyerr defines the structured error type shared by the rsakey packages.
package keyerr

import (
	"errors"
	"strings"
)

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
type Kind string

const (
	KindMalformedPEM  Kind = "MalformedPEM"
	KindMalformedASN1 Kind = "MalformedASN1"
	KindInternal      Kind = "Internal"
)

// Error is the library's structured error type.
//
// RuleID is a stable identifier (e.g., RSAKEY-PEM-001, RSAKEY-ASN1-101) that
// names the violated structural rule. Label is set for PEM failures and Schema
// for ASN.1 failures so the caller can tell which shape was expected.
//
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Label   string
	Schema  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	switch {
	case e.Label != "":
		sb.WriteString(" (label ")
		sb.WriteString(e.Label)
		sb.WriteString(")")
	case e.Schema != "":
		sb.WriteString(" (schema ")
		sb.WriteString(e.Schema)
		sb.WriteString(")")
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// PEM returns a KindMalformedPEM error for the expected label.
func PEM(ruleID, label, msg string) error {
	return &Error{Kind: KindMalformedPEM, RuleID: ruleID, Label: label, Message: msg}
}

// WrapPEM is like PEM but records cause.
func WrapPEM(ruleID, label, msg string, cause error) error {
	return &Error{Kind: KindMalformedPEM, RuleID: ruleID, Label: label, Message: msg, Cause: cause}
}

// ASN1 returns a KindMalformedASN1 error for the expected schema.
func ASN1(ruleID, schema, msg string) error {
	return &Error{Kind: KindMalformedASN1, RuleID: ruleID, Schema: schema, Message: msg}
}

// WrapASN1 is like ASN1 but records cause.
func WrapASN1(ruleID, schema, msg string, cause error) error {
	return &Error{Kind: KindMalformedASN1, RuleID: ruleID, Schema: schema, Message: msg, Cause: cause}
}

// Internal reports a broken invariant inside the library.
func Internal(ruleID, msg string, cause error) error {
	return &Error{Kind: KindInternal, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
