package ir

import (
	"fmt"

	"dada/internal/source"
)

// Filename identifies a source file of the session.
type Filename source.FileID

// FileID returns the source file id.
func (f Filename) FileID() source.FileID { return source.FileID(f) }

// SpannedWord is a word together with the span it was read from.
type SpannedWord struct {
	Word source.Word
	Span source.Span
}

// FunctionKey is the identity of a Function: its name and location. The
// location is the file plus the ordinal among same-named definitions in
// that file, so moving text inside the file keeps the identity.
type FunctionKey struct {
	File    Filename
	Name    source.Word
	Ordinal uint32
}

// ClassKey is the identity of a Class.
type ClassKey struct {
	File    Filename
	Name    source.Word
	Ordinal uint32
}

// Function is a handle to a function entity.
type Function struct{ id uint32 }

// Class is a handle to a class entity.
type Class struct{ id uint32 }

// Variable is a handle to a variable entity. Its identity is its name.
type Variable struct{ id uint32 }

// NewFunction, NewClass and NewVariable wrap dense ids issued by the
// entity store. Ids start at 1.
func NewFunction(id uint32) Function { return Function{id: id} }
func NewClass(id uint32) Class       { return Class{id: id} }
func NewVariable(id uint32) Variable { return Variable{id: id} }

func (f Function) ID() uint32    { return f.id }
func (f Function) IsValid() bool { return f.id != 0 }
func (f Function) String() string {
	return fmt.Sprintf("Function(%d)", f.id)
}

func (c Class) ID() uint32    { return c.id }
func (c Class) IsValid() bool { return c.id != 0 }
func (c Class) String() string {
	return fmt.Sprintf("Class(%d)", c.id)
}

func (v Variable) ID() uint32    { return v.id }
func (v Variable) IsValid() bool { return v.id != 0 }
func (v Variable) String() string {
	return fmt.Sprintf("Variable(%d)", v.id)
}
