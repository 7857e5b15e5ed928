// runtime.go
//
// This file installs the native standard runtime into a fresh interpreter's
// globals. It goes through the same Callable surface user functions use —
// nothing here reaches into the walker's internals.
//
// The language ships exactly one built-in: clock(), arity 0, returning
// seconds since the Unix epoch as a number.
package lox

import "time"

func registerStandardBuiltins(globals *Env) {
	defineNative(globals, "clock", 0, func(_ *Interpreter, _ []Value) Value {
		return Num(float64(time.Now().UnixNano()) / 1e9)
	})
}

func defineNative(env *Env, name string, arity int, impl func(*Interpreter, []Value) Value) {
	env.Define(name, Value{Tag: VTNative, Data: &NativeFun{
		Name:  name,
		NArgs: arity,
		Impl:  impl,
	}})
}
