package binderr

import (
	"fmt"
	"strings"

	"github.com/cottand/bindc/ir"
	"github.com/pkg/errors"
)

// enableDebugErrorPrinting makes errors include the frame they were raised at when printed
const enableDebugErrorPrinting bool = false

type ErrCode int

const (
	None ErrCode = iota
	MalformedType
	DuplicateDeclaration
	UnresolvedType
	Decode
)

type BindError interface {
	Error() string
	Code() ErrCode
	Position() ir.Pos

	withStack(errors.StackTrace) BindError
	getStack() errors.StackTrace
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func FormatWithCode(e BindError) string {
	var sb strings.Builder
	if enableDebugErrorPrinting && len(e.getStack()) > 0 {
		sb.WriteString(fmt.Sprintf("%v:", e.getStack()[0]))
	}
	if pos := e.Position(); pos.IsValid() {
		sb.WriteString(pos.String() + ": ")
	}
	sb.WriteString(fmt.Sprintf("(E%03d) %s", e.Code(), e.Error()))
	return sb.String()
}

// FormatWithStack renders e together with the frames it was raised from
func FormatWithStack(e BindError) string {
	return fmt.Sprintf("%s%+v", FormatWithCode(e), e.getStack())
}

// New records the caller's stack in err
func New[E BindError](err E) BindError {
	st := errors.WithStack(err).(stackTracer).StackTrace()
	if len(st) > 0 {
		// drop New itself
		st = st[1:]
	}
	return err.withStack(st)
}

type Unclassified struct {
	From  error
	Pos   ir.Pos
	stack errors.StackTrace
}

func (e Unclassified) Error() string {
	return fmt.Sprintf("unclassified error: %v", e.From)
}
func (e Unclassified) Code() ErrCode               { return None }
func (e Unclassified) Position() ir.Pos            { return e.Pos }
func (e Unclassified) Unwrap() error               { return e.From }
func (e Unclassified) getStack() errors.StackTrace { return e.stack }
func (e Unclassified) withStack(stack errors.StackTrace) BindError {
	e.stack = stack
	return e
}

// MalformedTypeError reports a nullable type directly wrapping another
// nullable type, which has no defined simplification.
//
// Decl and Location are empty when the error is raised on a bare type,
// and filled in once it surfaces through a declaration.
type MalformedTypeError struct {
	Type ir.Type
	// Decl is the name of the declaration being simplified
	Decl string
	// Location names the type position inside Decl, like "field 'x'"
	Location string
	Pos      ir.Pos
	stack    errors.StackTrace
}

func (e MalformedTypeError) Error() string {
	msg := fmt.Sprintf("malformed type '%s'", ir.TypeString(e.Type))
	if e.Location != "" {
		msg += " at " + e.Location
	}
	if e.Decl != "" {
		msg += fmt.Sprintf(" of '%s'", e.Decl)
	}
	return msg + ": a nullable type cannot wrap another nullable type"
}
func (e MalformedTypeError) Code() ErrCode               { return MalformedType }
func (e MalformedTypeError) Position() ir.Pos            { return e.Pos }
func (e MalformedTypeError) getStack() errors.StackTrace { return e.stack }
func (e MalformedTypeError) withStack(stack errors.StackTrace) BindError {
	e.stack = stack
	return e
}

type DuplicateDeclarationError struct {
	Name  string
	First ir.Pos
	Pos   ir.Pos
	stack errors.StackTrace
}

func (e DuplicateDeclarationError) Error() string {
	if e.First.IsValid() {
		return fmt.Sprintf("'%s' is already declared at %s", e.Name, e.First)
	}
	return fmt.Sprintf("'%s' is already declared", e.Name)
}
func (e DuplicateDeclarationError) Code() ErrCode               { return DuplicateDeclaration }
func (e DuplicateDeclarationError) Position() ir.Pos            { return e.Pos }
func (e DuplicateDeclarationError) getStack() errors.StackTrace { return e.stack }
func (e DuplicateDeclarationError) withStack(stack errors.StackTrace) BindError {
	e.stack = stack
	return e
}

// UnresolvedTypeError is a reference to a named type no declaration provides.
// It does not stop a translation.
type UnresolvedTypeError struct {
	Name  string
	Decl  string
	Pos   ir.Pos
	stack errors.StackTrace
}

func (e UnresolvedTypeError) Error() string {
	return fmt.Sprintf("can't find '%s' referenced by '%s': this usually means that the type was incompatible or not found", e.Name, e.Decl)
}
func (e UnresolvedTypeError) Code() ErrCode               { return UnresolvedType }
func (e UnresolvedTypeError) Position() ir.Pos            { return e.Pos }
func (e UnresolvedTypeError) getStack() errors.StackTrace { return e.stack }
func (e UnresolvedTypeError) withStack(stack errors.StackTrace) BindError {
	e.stack = stack
	return e
}

type DecodeError struct {
	Message string
	Pos     ir.Pos
	stack   errors.StackTrace
}

func (e DecodeError) Error() string               { return e.Message }
func (e DecodeError) Code() ErrCode               { return Decode }
func (e DecodeError) Position() ir.Pos            { return e.Pos }
func (e DecodeError) getStack() errors.StackTrace { return e.stack }
func (e DecodeError) withStack(stack errors.StackTrace) BindError {
	e.stack = stack
	return e
}
