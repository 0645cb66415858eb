package errors

import stderrors "errors"

// Code is the numeric status returned across the WASM boundary.
type Code uint32

const (
	CodeOK Code = iota
	CodeInvalidHandle
	CodeStaleHandle
	CodeTypeMismatch
	CodeAlreadyParented
	CodeDoubleRelease
	CodeInvalidInput
	CodeEngine
	CodeClosed
	CodeOutOfBounds
	CodeBufferTooSmall
	CodeInternal
)

var kindCodes = map[Kind]Code{
	KindInvalidHandle:   CodeInvalidHandle,
	KindStaleHandle:     CodeStaleHandle,
	KindTypeMismatch:    CodeTypeMismatch,
	KindAlreadyParented: CodeAlreadyParented,
	KindDoubleRelease:   CodeDoubleRelease,
	KindInvalidInput:    CodeInvalidInput,
	KindEngine:          CodeEngine,
	KindClosed:          CodeClosed,
	KindOutOfBounds:     CodeOutOfBounds,
	KindBufferTooSmall:  CodeBufferTooSmall,
}

var codeNames = [...]string{
	CodeOK:              "ok",
	CodeInvalidHandle:   string(KindInvalidHandle),
	CodeStaleHandle:     string(KindStaleHandle),
	CodeTypeMismatch:    string(KindTypeMismatch),
	CodeAlreadyParented: string(KindAlreadyParented),
	CodeDoubleRelease:   string(KindDoubleRelease),
	CodeInvalidInput:    string(KindInvalidInput),
	CodeEngine:          string(KindEngine),
	CodeClosed:          string(KindClosed),
	CodeOutOfBounds:     string(KindOutOfBounds),
	CodeBufferTooSmall:  string(KindBufferTooSmall),
	CodeInternal:        "internal",
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return "unknown"
}

// KindOf extracts the kind of a bridge error, or "" for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// CodeOf maps an error to its boundary status code.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	if c, ok := kindCodes[KindOf(err)]; ok {
		return c
	}
	return CodeInternal
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
