// interpreter_exec.go — PRIVATE: statement and expression walkers.
//
//   - Statements execute for effect; expressions evaluate to a Value.
//   - Runtime failures panic a *RuntimeError which unwinds to the public
//     Interpret/Evaluate boundary (see interpreter.go). `return` unwinds as
//     returnSignal and is intercepted at the function-call frame only
//     (callable.go). Nothing else is caught internally.
//   - Variable reads/writes consult the resolver's depth map: a hit walks
//     exactly that many frames; a miss goes to Globals by name.
//
// No exported identifiers here. The public facade lives in interpreter.go.
package lox

import "fmt"

func (ip *Interpreter) execute(s Stmt) {
	switch st := s.(type) {
	case *ExprStmt:
		ip.eval(st.Expression)

	case *PrintStmt:
		v := ip.eval(st.Expression)
		fmt.Fprintln(ip.out, FormatValue(v))

	case *VarStmt:
		// At global scope the name already exists (as nil) while its own
		// initializer runs, so `var a = a;` binds a to nil. In local scopes
		// the resolver rejected that form before execution began.
		if ip.env == ip.Globals && !ip.Globals.declaredLocally(st.Name.Lexeme) {
			ip.Globals.Define(st.Name.Lexeme, Nil)
		}
		v := Nil
		if st.Initializer != nil {
			v = ip.eval(st.Initializer)
		}
		ip.env.Define(st.Name.Lexeme, v)

	case *BlockStmt:
		ip.executeBlock(st.Statements, NewEnv(ip.env))

	case *IfStmt:
		if Truthy(ip.eval(st.Condition)) {
			ip.execute(st.ThenBranch)
		} else if st.ElseBranch != nil {
			ip.execute(st.ElseBranch)
		}

	case *WhileStmt:
		// The condition re-evaluates in the outer environment each pass;
		// only the body gets a fresh frame (via its block, if it is one).
		for Truthy(ip.eval(st.Condition)) {
			ip.execute(st.Body)
		}

	case *FunctionStmt:
		fn := &Function{Decl: st, Closure: ip.env}
		ip.env.Define(st.Name.Lexeme, Value{Tag: VTFun, Data: fn})

	case *ReturnStmt:
		v := Nil
		if st.Value != nil {
			v = ip.eval(st.Value)
		}
		panic(returnSignal{value: v})

	case *ClassStmt:
		ip.executeClass(st)

	default:
		panic(fmt.Sprintf("unhandled statement %T", s))
	}
}

// executeBlock runs stmts in env and restores the previous frame on every
// exit path — normal completion, runtime error, or a return unwinding.
func (ip *Interpreter) executeBlock(stmts []Stmt, env *Env) {
	prev := ip.env
	ip.env = env
	defer func() { ip.env = prev }()
	for _, s := range stmts {
		ip.execute(s)
	}
}

// executeClass evaluates the superclass (if any), then builds the method
// table. When a superclass exists, methods close over an extra frame where
// `super` is bound to it — the same frame shape the resolver recorded, so
// the depths line up. The class is defined before the methods are built so
// its body can reference the name, and the binding is assigned last so the
// superclass is fully resolved before any method is callable.
func (ip *Interpreter) executeClass(st *ClassStmt) {
	var superclass *Class
	if st.Superclass != nil {
		sv := ip.eval(st.Superclass)
		sc, ok := sv.Data.(*Class)
		if sv.Tag != VTClass || !ok {
			panic(&RuntimeError{Tok: st.Superclass.Name, Msg: "Superclass must be a class."})
		}
		superclass = sc
	}

	ip.env.Define(st.Name.Lexeme, Nil)

	env := ip.env
	if superclass != nil {
		env = NewEnv(env)
		env.Define("super", Value{Tag: VTClass, Data: superclass})
	}

	methods := make(map[string]*Function, len(st.Methods))
	for _, m := range st.Methods {
		methods[m.Name.Lexeme] = &Function{
			Decl:          m,
			Closure:       env,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}

	cls := &Class{Name: st.Name.Lexeme, Superclass: superclass, Methods: methods}
	if err := ip.env.Assign(st.Name.Lexeme, Value{Tag: VTClass, Data: cls}); err != nil {
		panic(&RuntimeError{Tok: st.Name, Msg: err.Error()})
	}
}

func (ip *Interpreter) eval(e Expr) Value {
	switch ex := e.(type) {
	case *Literal:
		switch v := ex.Value.(type) {
		case nil:
			return Nil
		case bool:
			return Bool(v)
		case float64:
			return Num(v)
		case string:
			return Str(v)
		default:
			panic(fmt.Sprintf("unhandled literal payload %T", ex.Value))
		}

	case *Grouping:
		return ip.eval(ex.Expression)

	case *Unary:
		return ip.evalUnary(ex)

	case *Binary:
		return ip.evalBinary(ex)

	case *Logical:
		left := ip.eval(ex.Left)
		if ex.Operator.Type == OR {
			if Truthy(left) {
				return left
			}
		} else {
			if !Truthy(left) {
				return left
			}
		}
		return ip.eval(ex.Right)

	case *Variable:
		return ip.lookUpVariable(ex.Name, ex)

	case *Assign:
		v := ip.eval(ex.Value)
		if depth, ok := ip.locals[e]; ok {
			ip.env.AssignAt(depth, ex.Name.Lexeme, v)
		} else if err := ip.Globals.Assign(ex.Name.Lexeme, v); err != nil {
			panic(&RuntimeError{Tok: ex.Name, Msg: err.Error()})
		}
		return v

	case *Call:
		return ip.evalCall(ex)

	case *Get:
		obj := ip.eval(ex.Object)
		inst, ok := obj.Data.(*Instance)
		if obj.Tag != VTInstance || !ok {
			panic(&RuntimeError{Tok: ex.Name, Msg: "Only instances have properties."})
		}
		return inst.Get(ex.Name)

	case *Set:
		obj := ip.eval(ex.Object)
		inst, ok := obj.Data.(*Instance)
		if obj.Tag != VTInstance || !ok {
			panic(&RuntimeError{Tok: ex.Name, Msg: "Only instances have fields."})
		}
		v := ip.eval(ex.Value)
		inst.Set(ex.Name, v)
		return v

	case *This:
		return ip.lookUpVariable(ex.Keyword, ex)

	case *Super:
		return ip.evalSuper(ex)

	default:
		panic(fmt.Sprintf("unhandled expression %T", e))
	}
}

// lookUpVariable is the resolver/interpreter contract in one place: a depth
// map hit reads at exactly that depth, a miss is a dynamic global lookup.
func (ip *Interpreter) lookUpVariable(name Token, e Expr) Value {
	if depth, ok := ip.locals[e]; ok {
		return ip.env.GetAt(depth, name.Lexeme)
	}
	v, err := ip.Globals.Get(name.Lexeme)
	if err != nil {
		panic(&RuntimeError{Tok: name, Msg: err.Error()})
	}
	return v
}

func (ip *Interpreter) evalUnary(ex *Unary) Value {
	right := ip.eval(ex.Right)
	switch ex.Operator.Type {
	case MINUS:
		n, ok := right.Data.(float64)
		if right.Tag != VTNum || !ok {
			panic(&RuntimeError{Tok: ex.Operator, Msg: "Operand must be a number."})
		}
		return Num(-n)
	case BANG:
		return Bool(!Truthy(right))
	}
	panic(fmt.Sprintf("unhandled unary operator %v", ex.Operator.Type))
}

func (ip *Interpreter) evalBinary(ex *Binary) Value {
	left := ip.eval(ex.Left)
	right := ip.eval(ex.Right)

	// numOperands asserts both operands are numbers for -, *, /, <, <=, >, >=.
	numOperands := func() (float64, float64) {
		if left.Tag != VTNum || right.Tag != VTNum {
			panic(&RuntimeError{Tok: ex.Operator, Msg: "Operands must be numbers."})
		}
		return left.Data.(float64), right.Data.(float64)
	}

	switch ex.Operator.Type {
	case PLUS:
		if left.Tag == VTNum && right.Tag == VTNum {
			return Num(left.Data.(float64) + right.Data.(float64))
		}
		if left.Tag == VTStr && right.Tag == VTStr {
			return Str(left.Data.(string) + right.Data.(string))
		}
		panic(&RuntimeError{Tok: ex.Operator, Msg: "Operands must be two numbers or two strings."})
	case MINUS:
		a, b := numOperands()
		return Num(a - b)
	case STAR:
		a, b := numOperands()
		return Num(a * b)
	case SLASH:
		// IEEE division: x/0 is ±Inf or NaN, never a runtime error.
		a, b := numOperands()
		return Num(a / b)
	case GREATER:
		a, b := numOperands()
		return Bool(a > b)
	case GREATER_EQUAL:
		a, b := numOperands()
		return Bool(a >= b)
	case LESS:
		a, b := numOperands()
		return Bool(a < b)
	case LESS_EQUAL:
		a, b := numOperands()
		return Bool(a <= b)
	case EQUAL_EQUAL:
		return Bool(Equal(left, right))
	case BANG_EQUAL:
		return Bool(!Equal(left, right))
	}
	panic(fmt.Sprintf("unhandled binary operator %v", ex.Operator.Type))
}

func (ip *Interpreter) evalCall(ex *Call) Value {
	callee := ip.eval(ex.Callee)

	args := make([]Value, 0, len(ex.Args))
	for _, a := range ex.Args {
		args = append(args, ip.eval(a))
	}

	fn, ok := callee.Data.(Callable)
	if !ok {
		panic(&RuntimeError{Tok: ex.Paren, Msg: "Can only call functions and classes."})
	}
	if len(args) != fn.Arity() {
		panic(&RuntimeError{
			Tok: ex.Paren,
			Msg: fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)),
		})
	}
	return fn.Call(ip, args)
}

// evalSuper: the resolver bound `super` at a known depth d; `this` is always
// one frame closer (bind puts the `this` frame directly inside the `super`
// frame, and the method-body frame inside that). Fetch both,
// find the method on the superclass chain, and return it bound to the
// current instance.
func (ip *Interpreter) evalSuper(ex *Super) Value {
	depth := ip.locals[ex]
	superclass := ip.env.GetAt(depth, "super").Data.(*Class)
	inst := ip.env.GetAt(depth-1, "this").Data.(*Instance)

	m, ok := superclass.FindMethod(ex.Method.Lexeme)
	if !ok {
		panic(&RuntimeError{Tok: ex.Method, Msg: "Undefined property '" + ex.Method.Lexeme + "'."})
	}
	return Value{Tag: VTFun, Data: m.bind(inst)}
}
