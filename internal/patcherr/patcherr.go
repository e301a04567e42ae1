// Package patcherr defines the contract-error type surfaced by every entry
// point in patch-core. Content issues (broken wires, orphans, ...) are never
// errors — see internal/validator.Result — only caller mistakes are.
package patcherr

import "fmt"

// Kind identifies the class of contract error, matching spec §6.4.
type Kind string

const (
	KindParseError        Kind = "ParseError"
	KindValidationError   Kind = "ValidationError"
	KindUnknownTemplate   Kind = "UnknownTemplate"
	KindInvalidParam      Kind = "InvalidParam"
	KindUnknownPort       Kind = "UnknownPort"
	KindUnknownModule     Kind = "UnknownModule"
	KindDuplicateMapping  Kind = "DuplicateMapping"
	KindFileIO            Kind = "FileIO"
)

// Error is the single concrete error type returned by patch-core's public
// surface. Context carries structured detail (offending field, allowed
// values, line number, ...) for logging without string-parsing the message.
type Error struct {
	Kind    Kind
	Message string
	Context map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// With returns a copy of e with an additional context key set. It never
// mutates e, so constructors can be called from concurrent callers safely
// even though the core itself is single-threaded.
func (e *Error) With(key string, value any) *Error {
	ctx := make(map[string]any, len(e.Context)+1)
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &Error{Kind: e.Kind, Message: e.Message, Context: ctx}
}

func new_(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Context: map[string]any{}}
}

func Parse(format string, args ...any) *Error { return new_(KindParseError, format, args...) }

func Validation(format string, args ...any) *Error {
	return new_(KindValidationError, format, args...)
}

func UnknownTemplate(name string) *Error {
	return new_(KindUnknownTemplate, "unknown template %q", name).With("template", name)
}

func InvalidParam(name, reason string, allowed []string) *Error {
	e := new_(KindInvalidParam, "invalid parameter %q: %s", name, reason).With("param", name)
	if len(allowed) > 0 {
		e = e.With("allowed", allowed)
	}
	return e
}

func UnknownPort(moduleID, port string) *Error {
	return new_(KindUnknownPort, "module %q has no port %q", moduleID, port).
		With("module", moduleID).With("port", port)
}

func UnknownModule(id string) *Error {
	return new_(KindUnknownModule, "unknown module %q", id).With("module", id)
}

func DuplicateMapping(param string) *Error {
	return new_(KindDuplicateMapping, "duplicate controller mapping for parameter %q", param).
		With("param", param)
}

func FileIO(path string, err error) *Error {
	return new_(KindFileIO, "%s: %v", path, err).With("path", path)
}

// InModule wraps err with the module-indexed prefix required by spec §7,
// preserving it for errors.As the way magda_dsl_parser.go wraps sub-call
// failures with %w.
func InModule(index int, template string, err error) error {
	return fmt.Errorf("error in module %d (%q): %w", index, template, err)
}
