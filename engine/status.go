package engine

// Outcome enumerates the engine's error descriptor kinds.
type Outcome uint8

const (
	OK Outcome = iota
	NotImplemented
	UnresolvedObjectReference
	DuplicateObjectReference
	MalformedSchema
	JSONParseError
	ChildAlreadyParented
	FileOpenFailed
	FileWriteFailed
	SchemaAlreadyRegistered
	SchemaNotRegistered
	SchemaVersionUnsupported
	KeyNotFound
	IllegalIndex
	TypeMismatch
	InternalError
	NotAnItem
	NotAChildOf
	NotAChild
	NotDescendedFrom
	CannotComputeAvailableRange
	InvalidTimeRange
	ObjectWithoutDuration
	CannotTrimTransition
	ObjectCycle
	CannotComputeBounds
	MediaReferencesDoNotContainActiveKey
	MediaReferencesContainEmptyKey
	NotAGap
	outcomeCount
)

var outcomeNames = [outcomeCount]string{
	OK:                                   "OK",
	NotImplemented:                       "NOT_IMPLEMENTED",
	UnresolvedObjectReference:            "UNRESOLVED_OBJECT_REFERENCE",
	DuplicateObjectReference:             "DUPLICATE_OBJECT_REFERENCE",
	MalformedSchema:                      "MALFORMED_SCHEMA",
	JSONParseError:                       "JSON_PARSE_ERROR",
	ChildAlreadyParented:                 "CHILD_ALREADY_PARENTED",
	FileOpenFailed:                       "FILE_OPEN_FAILED",
	FileWriteFailed:                      "FILE_WRITE_FAILED",
	SchemaAlreadyRegistered:              "SCHEMA_ALREADY_REGISTERED",
	SchemaNotRegistered:                  "SCHEMA_NOT_REGISTERED",
	SchemaVersionUnsupported:             "SCHEMA_VERSION_UNSUPPORTED",
	KeyNotFound:                          "KEY_NOT_FOUND",
	IllegalIndex:                         "ILLEGAL_INDEX",
	TypeMismatch:                         "TYPE_MISMATCH",
	InternalError:                        "INTERNAL_ERROR",
	NotAnItem:                            "NOT_AN_ITEM",
	NotAChildOf:                          "NOT_A_CHILD_OF",
	NotAChild:                            "NOT_A_CHILD",
	NotDescendedFrom:                     "NOT_DESCENDED_FROM",
	CannotComputeAvailableRange:          "CANNOT_COMPUTE_AVAILABLE_RANGE",
	InvalidTimeRange:                     "INVALID_TIME_RANGE",
	ObjectWithoutDuration:                "OBJECT_WITHOUT_DURATION",
	CannotTrimTransition:                 "CANNOT_TRIM_TRANSITION",
	ObjectCycle:                          "OBJECT_CYCLE",
	CannotComputeBounds:                  "CANNOT_COMPUTE_BOUNDS",
	MediaReferencesDoNotContainActiveKey: "MEDIA_REFERENCES_DO_NOT_CONTAIN_ACTIVE_KEY",
	MediaReferencesContainEmptyKey:       "MEDIA_REFERENCES_CONTAIN_EMPTY_KEY",
	NotAGap:                              "NOT_A_GAP",
}

func (o Outcome) String() string {
	if o < outcomeCount {
		return outcomeNames[o]
	}
	return "UNKNOWN"
}

// Status is the engine's error descriptor. A nil *Status means success.
type Status struct {
	Details string
	Outcome Outcome
}

// Fail builds a failing status.
func Fail(o Outcome, details string) *Status {
	return &Status{Outcome: o, Details: details}
}

// OK reports whether s describes success.
func (s *Status) OK() bool {
	return s == nil || s.Outcome == OK
}

func (s *Status) Error() string {
	if s == nil {
		return OK.String()
	}
	if s.Details == "" {
		return s.Outcome.String()
	}
	return s.Outcome.String() + ": " + s.Details
}
