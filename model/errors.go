package model

import "fmt"

// ContainerError reports an archive that cannot be used: it is unreadable
// or lacks the content.xml entry.
type ContainerError struct {
	Message string
	Cause   error
}

func (e *ContainerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("udf container: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("udf container: %s", e.Message)
}

func (e *ContainerError) Unwrap() error { return e.Cause }

// FormatError reports malformed XML.
type FormatError struct {
	Line  int
	Cause error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("udf format: malformed xml at line %d: %v", e.Line, e.Cause)
	}
	return fmt.Sprintf("udf format: malformed xml: %v", e.Cause)
}

func (e *FormatError) Unwrap() error { return e.Cause }

// StructureError reports a required section that is missing.
type StructureError struct {
	Section string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("udf structure: missing required section %q", e.Section)
}

// OffsetError reports a span outside the content buffer.
type OffsetError struct {
	Offset    int
	Length    int
	BufferLen int
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("udf offset: span [%d,+%d) outside content buffer of length %d",
		e.Offset, e.Length, e.BufferLen)
}

// AssetError reports an embedded payload that cannot be decoded.
// It is not fatal; renderers substitute a placeholder.
type AssetError struct {
	Kind  string
	Cause error
}

func (e *AssetError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("udf asset: invalid %s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("udf asset: invalid %s", e.Kind)
}

func (e *AssetError) Unwrap() error { return e.Cause }
