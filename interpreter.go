// interpreter.go — PUBLIC API SURFACE for the Lox interpreter.
//
// OVERVIEW
// ========
// This file exposes the public surface of the runtime: the value model, the
// environment chain, and the Interpreter with its canonical entry points.
// The statement/expression walkers live in interpreter_exec.go; the callable
// object model (functions, classes, instances) lives in callable.go.
//
// PIPELINE
// --------
// A program runs in four stages, each gated on the previous one succeeding:
//
//	source ── Lexer.Scan ──► []Token ── Parse ──► []Stmt
//	       ── Resolver.ResolveProgram ──► depth map (side table)
//	       ── Interpreter.Interpret ──► print output / runtime error
//
// `Run` performs all four against this interpreter's persistent globals and
// is what cmd/golox uses for both files and REPL lines. Static errors
// (ErrorList of lex/parse/resolve diagnostics) mean execution never began;
// a *RuntimeError means it began and unwound.
//
// EXECUTION & SCOPING SEMANTICS
// -----------------------------
// Code evaluates against a chain of *Env frames. The interpreter holds two
// distinguished references: Globals (the root frame, where `clock` and
// top-level declarations live) and the current frame. Local variable
// accesses are resolved statically: the resolver records, per use-site
// expression node, how many frames to walk; GetAt/AssignAt walk exactly
// that many links with no fallback. Names with no recorded depth are
// globals and are looked up dynamically by name — that asymmetry is what
// lets top-level functions mutually recurse.
//
// After any Interpret call — success or runtime error — the current frame
// is the globals frame again, so a REPL session survives its errors.
package lox

import (
	"fmt"
	"io"
	"os"
)

////////////////////////////////////////////////////////////////////////////////
//                              PUBLIC TYPES & CTORS
////////////////////////////////////////////////////////////////////////////////

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VTNil      ValueTag = iota // nil (no payload)
	VTBool                     // bool
	VTNum                      // float64 (IEEE 754 double)
	VTStr                      // string
	VTFun                      // *Function (user function or bound method)
	VTNative                   // *NativeFun (host built-in)
	VTClass                    // *Class
	VTInstance                 // *Instance
)

// Value is the universal runtime carrier. Tag selects the Go type of Data:
// nil, bool, float64, string, *Function, *NativeFun, *Class or *Instance.
//
// Equality follows Lox semantics (see Equal): primitives compare by value,
// callables and instances by identity, nil equals only nil, and NaN ≠ NaN.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Nil is the singleton nil Value.
var Nil = Value{Tag: VTNil}

// Primitive constructors.
func Bool(b bool) Value   { return Value{Tag: VTBool, Data: b} }
func Num(f float64) Value { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value  { return Value{Tag: VTStr, Data: s} }

// Truthy reports Lox truthiness: nil and false are falsey, everything else
// (including 0 and "") is truthy.
func Truthy(v Value) bool {
	switch v.Tag {
	case VTNil:
		return false
	case VTBool:
		return v.Data.(bool)
	default:
		return true
	}
}

// Equal reports Lox equality. Numbers, strings and booleans compare by
// value; functions, classes and instances by reference. NaN ≠ NaN falls out
// of the float64 comparison.
func Equal(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNil:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTNum:
		return a.Data.(float64) == b.Data.(float64)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	default:
		return a.Data == b.Data // pointer identity
	}
}

// String renders v in the same form `print` uses (FormatValue).
func (v Value) String() string { return FormatValue(v) }

// Env is a lexical environment frame with a parent link. Define binds in the
// current frame (shadowing outer bindings); Get and Assign walk parent-ward;
// GetAt and AssignAt walk an exact number of links as computed by the
// resolver, with no fallback past the target frame.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a frame with the given parent (nil for the root).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Define binds name to v in this frame, creating or overwriting.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Get retrieves the nearest visible binding or fails.
func (e *Env) Get(name string) (Value, error) {
	if v, ok := e.table[name]; ok {
		return v, nil
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return Nil, fmt.Errorf("Undefined variable '%s'.", name)
}

// Assign updates the nearest existing binding. It never defines: assigning
// an unbound name is an error at every depth.
func (e *Env) Assign(name string, v Value) error {
	if _, ok := e.table[name]; ok {
		e.table[name] = v
		return nil
	}
	if e.parent != nil {
		return e.parent.Assign(name, v)
	}
	return fmt.Errorf("Undefined variable '%s'.", name)
}

// GetAt reads name in the frame exactly depth links up. The resolver
// guarantees the binding exists there; a miss is an internal invariant
// violation, not a user error.
func (e *Env) GetAt(depth int, name string) Value {
	return e.ancestor(depth).table[name]
}

// AssignAt writes name in the frame exactly depth links up.
func (e *Env) AssignAt(depth int, name string, v Value) {
	e.ancestor(depth).table[name] = v
}

// declaredLocally reports whether name is bound in this frame itself.
func (e *Env) declaredLocally(name string) bool {
	_, ok := e.table[name]
	return ok
}

func (e *Env) ancestor(depth int) *Env {
	env := e
	for i := 0; i < depth; i++ {
		env = env.parent
	}
	return env
}

////////////////////////////////////////////////////////////////////////////////
//                               PUBLIC INTERPRETER
////////////////////////////////////////////////////////////////////////////////

// Interpreter executes resolved programs against a persistent global
// environment. Zero value is not usable; construct with NewInterpreter.
//
// Concurrency: an Interpreter is single-threaded by design — the language
// has no concurrency, and evaluation order is fully specified
// (left-to-right operands and arguments, condition before branches).
type Interpreter struct {
	// Globals is the root environment. `clock` is predefined here and
	// top-level declarations land here.
	Globals *Env

	env    *Env         // current frame; == Globals between top-level statements
	locals map[Expr]int // resolver's depth map, keyed by node identity
	out    io.Writer    // print sink
}

// NewInterpreter returns an interpreter with the native built-ins installed
// (see runtime.go). Output goes to os.Stdout until SetOutput.
func NewInterpreter() *Interpreter {
	globals := NewEnv(nil)
	ip := &Interpreter{
		Globals: globals,
		env:     globals,
		locals:  make(map[Expr]int),
		out:     os.Stdout,
	}
	registerStandardBuiltins(globals)
	return ip
}

// SetOutput redirects `print` output (tests capture it with a bytes.Buffer).
func (ip *Interpreter) SetOutput(w io.Writer) { ip.out = w }

// Resolve records that expr refers to a binding depth frames up from its
// use site. Called by the resolver; expressions without an entry are
// treated as globals.
func (ip *Interpreter) Resolve(expr Expr, depth int) {
	ip.locals[expr] = depth
}

// Interpret executes statements in order against the current globals.
// On a runtime error it stops, restores the globals frame, and returns the
// *RuntimeError; otherwise it returns nil.
func (ip *Interpreter) Interpret(stmts []Stmt) (err error) {
	defer func() {
		ip.env = ip.Globals
		if r := recover(); r != nil {
			if rte, ok := r.(*RuntimeError); ok {
				err = rte
				return
			}
			panic(r)
		}
	}()
	for _, s := range stmts {
		ip.execute(s)
	}
	return nil
}

// Run sends src through the full pipeline — scan, parse, resolve, execute —
// against this interpreter's persistent state. Static errors come back as an
// *ErrorList and mean execution never started; runtime failures come back
// as a *RuntimeError.
func (ip *Interpreter) Run(src string) error {
	stmts, err := ParseSource(src)
	if err != nil {
		return err
	}
	if err := NewResolver(ip).ResolveProgram(stmts); err != nil {
		return err
	}
	return ip.Interpret(stmts)
}

// Evaluate computes a single expression in the current environment.
// The REPL uses it to echo bare expressions. Runtime failures return a
// *RuntimeError.
func (ip *Interpreter) Evaluate(e Expr) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if rte, ok := r.(*RuntimeError); ok {
				v, err = Nil, rte
				return
			}
			panic(r)
		}
	}()
	return ip.eval(e), nil
}

//// END_OF_PUBLIC
