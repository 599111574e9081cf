package asm

import "fmt"

// AssembleError is an assembly-time failure with the source line number it
// was detected on, per spec.md §4.1 ("Output: a Program, or an assembly
// error with file line number"). Assembly errors never reach a VM's fault
// register - they abort loading that robot's program (spec.md §7).
type AssembleError struct {
	Line int
	Msg  string
}

func (e *AssembleError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

func errf(line int, format string, args ...any) *AssembleError {
	return &AssembleError{Line: line, Msg: fmt.Sprintf(format, args...)}
}
