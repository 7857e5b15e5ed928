package lox

import (
	"bytes"
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

// runSrc executes a whole program on a fresh interpreter and returns the
// print output.
func runSrc(t *testing.T, src string) string {
	t.Helper()
	ip := NewInterpreter()
	var buf bytes.Buffer
	ip.SetOutput(&buf)
	if err := ip.Run(src); err != nil {
		t.Fatalf("Run error: %v\nsource:\n%s", err, src)
	}
	return buf.String()
}

// wantLines asserts the print output is exactly the given lines.
func wantLines(t *testing.T, got string, lines ...string) {
	t.Helper()
	want := strings.Join(lines, "\n")
	if len(lines) > 0 {
		want += "\n"
	}
	if got != want {
		t.Fatalf("output mismatch\nwant:\n%q\ngot:\n%q", want, got)
	}
}

// wantRuntimeError runs src and asserts a *RuntimeError whose message
// contains substr.
func wantRuntimeError(t *testing.T, src, substr string) {
	t.Helper()
	ip := NewInterpreter()
	ip.SetOutput(&bytes.Buffer{})
	err := ip.Run(src)
	if err == nil {
		t.Fatalf("want runtime error containing %q, got success\nsource:\n%s", substr, src)
	}
	rte, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("want *RuntimeError, got %T: %v", err, err)
	}
	if !strings.Contains(rte.Msg, substr) {
		t.Fatalf("want message containing %q, got %q", substr, rte.Msg)
	}
}

// --- expressions & printing ------------------------------------------------

func Test_Interpreter_Arithmetic_Precedence(t *testing.T) {
	wantLines(t, runSrc(t, "print 1 + 2 * 3;"), "7")
	wantLines(t, runSrc(t, "print (1 + 2) * 3;"), "9")
	wantLines(t, runSrc(t, "print 10 - 4 - 3;"), "3") // left-assoc
	wantLines(t, runSrc(t, "print -2 * 3;"), "-6")
}

func Test_Interpreter_Number_Formatting(t *testing.T) {
	wantLines(t, runSrc(t, "print 2.5;"), "2.5")
	wantLines(t, runSrc(t, "print 4 / 2;"), "2") // no trailing .0
	wantLines(t, runSrc(t, "print 0.1 + 0.2;"), "0.30000000000000004")
}

func Test_Interpreter_String_Concat(t *testing.T) {
	wantLines(t, runSrc(t, `print "foo" + "bar";`), "foobar")
}

func Test_Interpreter_Division_By_Zero_Is_IEEE(t *testing.T) {
	wantLines(t, runSrc(t, "print 1 / 0 > 1000000;"), "true")
	wantLines(t, runSrc(t, "print 0 / 0 == 0 / 0;"), "false") // NaN != NaN
}

func Test_Interpreter_Truthiness(t *testing.T) {
	// Only nil and false are falsey; 0 and "" are truthy.
	wantLines(t, runSrc(t, `
		if (0) print "zero"; else print "no";
		if ("") print "empty"; else print "no";
		if (nil) print "nil"; else print "no";
		if (false) print "false"; else print "no";
	`), "zero", "empty", "no", "no")
}

func Test_Interpreter_Equality(t *testing.T) {
	wantLines(t, runSrc(t, `
		print 1 == 1;
		print 1 == 2;
		print "a" == "a";
		print nil == nil;
		print nil == false;
		print 1 == "1";
	`), "true", "false", "true", "true", "false", "false")
}

func Test_Interpreter_Logical_ShortCircuit_Returns_Operand(t *testing.T) {
	// The untaken operand must not evaluate: sideEffect would print.
	wantLines(t, runSrc(t, `
		fun sideEffect() { print "called"; return true; }
		print false and sideEffect();
		print true or sideEffect();
		print nil or "fallback";
		print 1 and 2;
	`), "false", "true", "fallback", "2")
}

func Test_Interpreter_Unary_Operators(t *testing.T) {
	wantLines(t, runSrc(t, `
		print !true;
		print !nil;
		print !0;
		print -(3 + 4);
	`), "false", "true", "false", "-7")
}

// --- variables & scoping ---------------------------------------------------

func Test_Interpreter_Block_Shadowing(t *testing.T) {
	wantLines(t, runSrc(t, `
		var a = 1;
		{
			var a = 2;
			print a;
		}
		print a;
	`), "2", "1")
}

func Test_Interpreter_Assignment_Is_Expression(t *testing.T) {
	wantLines(t, runSrc(t, `
		var a = 1;
		var b;
		b = a = 5;
		print a;
		print b;
	`), "5", "5")
}

func Test_Interpreter_Global_SelfReference_Yields_Nil(t *testing.T) {
	wantLines(t, runSrc(t, "var a = a; print a;"), "nil")
}

func Test_Interpreter_Assign_To_Outer_Scope(t *testing.T) {
	wantLines(t, runSrc(t, `
		var a = "outer";
		{
			a = "inner";
		}
		print a;
	`), "inner")
}

func Test_Interpreter_Shadow_Resolves_Per_Use_Site(t *testing.T) {
	// The closure captured the outer binding before the shadow existed;
	// both reads of `a` in showA resolve to the global.
	wantLines(t, runSrc(t, `
		var a = "global";
		{
			fun showA() { print a; }
			showA();
			var a = "block";
			showA();
		}
	`), "global", "global")
}

// --- control flow ----------------------------------------------------------

func Test_Interpreter_While_Loop(t *testing.T) {
	wantLines(t, runSrc(t, `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`), "0", "1", "2")
}

func Test_Interpreter_For_Desugaring_Runs_Increment(t *testing.T) {
	wantLines(t, runSrc(t, `
		for (var i = 0; i < 3; i = i + 1) print i;
	`), "0", "1", "2")
}

func Test_Interpreter_For_Without_Clauses(t *testing.T) {
	// Omitted condition becomes literal true; return is the only way out.
	wantLines(t, runSrc(t, `
		fun run() {
			var i = 0;
			for (;;) {
				if (i >= 2) return;
				print i;
				i = i + 1;
			}
		}
		run();
	`), "0", "1")
}

func Test_Interpreter_Dangling_Else_Binds_To_Nearest_If(t *testing.T) {
	wantLines(t, runSrc(t, `
		if (true) if (false) print "inner"; else print "else-of-inner";
	`), "else-of-inner")
}

// --- functions & closures --------------------------------------------------

func Test_Interpreter_Function_Call_And_Return(t *testing.T) {
	wantLines(t, runSrc(t, `
		fun add(a, b) { return a + b; }
		print add(1, 2);
		print add;
	`), "3", "<fn add>")
}

func Test_Interpreter_Function_Without_Return_Yields_Nil(t *testing.T) {
	wantLines(t, runSrc(t, `
		fun noop() {}
		print noop();
	`), "nil")
}

func Test_Interpreter_Bare_Return_Yields_Nil(t *testing.T) {
	wantLines(t, runSrc(t, `
		fun f() { return; }
		print f();
	`), "nil")
}

func Test_Interpreter_Closure_Captures_Mutable_Binding(t *testing.T) {
	wantLines(t, runSrc(t, `
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				print i;
			}
			return count;
		}
		var c = makeCounter();
		c();
		c();
	`), "1", "2")
}

func Test_Interpreter_Closures_Share_Environment(t *testing.T) {
	wantLines(t, runSrc(t, `
		fun makePair() {
			var n = 0;
			fun inc() { n = n + 1; }
			fun get() { print n; }
			inc();
			inc();
			get();
		}
		makePair();
	`), "2")
}

func Test_Interpreter_Recursion(t *testing.T) {
	wantLines(t, runSrc(t, `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 2) + fib(n - 1);
		}
		print fib(10);
	`), "55")
}

func Test_Interpreter_Mutual_Recursion_Of_Globals(t *testing.T) {
	// isOdd references isEven before it is declared; globals are looked up
	// dynamically at call time, so this works at top level.
	wantLines(t, runSrc(t, `
		fun isOdd(n) {
			if (n == 0) return false;
			return isEven(n - 1);
		}
		fun isEven(n) {
			if (n == 0) return true;
			return isOdd(n - 1);
		}
		print isOdd(7);
	`), "true")
}

func Test_Interpreter_Arguments_Evaluate_Left_To_Right(t *testing.T) {
	wantLines(t, runSrc(t, `
		fun tag(n) { print n; return n; }
		fun three(a, b, c) {}
		three(tag(1), tag(2), tag(3));
	`), "1", "2", "3")
}

func Test_Interpreter_Clock_Is_A_Number(t *testing.T) {
	wantLines(t, runSrc(t, `
		print clock() >= 0;
		print clock;
	`), "true", "<native fn>")
}

// --- classes ---------------------------------------------------------------

func Test_Interpreter_Class_Instantiation_And_Fields(t *testing.T) {
	wantLines(t, runSrc(t, `
		class Bag {}
		var bag = Bag();
		bag.item = "apple";
		print bag.item;
		print Bag;
		print bag;
	`), "apple", "Bag", "Bag instance")
}

func Test_Interpreter_Method_Dispatch_With_This(t *testing.T) {
	wantLines(t, runSrc(t, `
		class Greeter {
			greet() { print "hello " + this.name; }
		}
		var g = Greeter();
		g.name = "world";
		g.greet();
	`), "hello world")
}

func Test_Interpreter_Initializer_Binds_Fields(t *testing.T) {
	wantLines(t, runSrc(t, `
		class C {
			init(x) { this.x = x; }
		}
		var o = C(42);
		print o.x;
	`), "42")
}

func Test_Interpreter_Initializer_Always_Returns_Instance(t *testing.T) {
	wantLines(t, runSrc(t, `
		class C {
			init() {
				this.ok = true;
				return;
			}
		}
		print C().ok;
		var o = C();
		print o.init().ok;
	`), "true", "true")
}

func Test_Interpreter_Bound_Method_Keeps_Instance(t *testing.T) {
	wantLines(t, runSrc(t, `
		class Cake {
			taste() { print "The " + this.flavor + " cake is delicious!"; }
		}
		var cake = Cake();
		cake.flavor = "chocolate";
		var taste = cake.taste;
		taste();
	`), "The chocolate cake is delicious!")
}

func Test_Interpreter_Field_Shadows_Method(t *testing.T) {
	wantLines(t, runSrc(t, `
		class C {
			m() { print "method"; }
		}
		var o = C();
		fun replacement() { print "field"; }
		o.m = replacement;
		o.m();
	`), "field")
}

func Test_Interpreter_Inheritance_And_Super(t *testing.T) {
	wantLines(t, runSrc(t, `
		class A {
			hi() { print "A"; }
		}
		class B < A {
			hi() {
				super.hi();
				print "B";
			}
		}
		B().hi();
	`), "A", "B")
}

func Test_Interpreter_Inherited_Method_Lookup(t *testing.T) {
	wantLines(t, runSrc(t, `
		class Animal {
			speak() { print "..."; }
		}
		class Dog < Animal {}
		Dog().speak();
	`), "...")
}

func Test_Interpreter_Super_Binds_This_To_Subclass_Instance(t *testing.T) {
	wantLines(t, runSrc(t, `
		class Base {
			name() { return "base"; }
			describe() { print "I am " + this.name(); }
		}
		class Derived < Base {
			name() { return "derived"; }
			describe() { super.describe(); }
		}
		Derived().describe();
	`), "I am derived")
}

func Test_Interpreter_Super_Skips_Own_Class(t *testing.T) {
	// The book's doughnut example: super in a grandchild method starts the
	// lookup at the method's defining class's superclass, not this's class.
	wantLines(t, runSrc(t, `
		class A {
			method() { print "A method"; }
		}
		class B < A {
			method() { print "B method"; }
			test() { super.method(); }
		}
		class C < B {}
		C().test();
	`), "A method")
}

// --- runtime errors --------------------------------------------------------

func Test_Interpreter_RuntimeError_Undefined_Variable(t *testing.T) {
	wantRuntimeError(t, "print nope;", "Undefined variable 'nope'.")
}

func Test_Interpreter_RuntimeError_Undefined_Assignment(t *testing.T) {
	wantRuntimeError(t, "nope = 1;", "Undefined variable 'nope'.")
}

func Test_Interpreter_RuntimeError_Bad_Operands(t *testing.T) {
	wantRuntimeError(t, `print 1 + "one";`, "Operands must be two numbers or two strings.")
	wantRuntimeError(t, `print "a" < "b";`, "Operands must be numbers.")
	wantRuntimeError(t, `print -"a";`, "Operand must be a number.")
}

func Test_Interpreter_RuntimeError_Not_Callable(t *testing.T) {
	wantRuntimeError(t, `"not a fn"();`, "Can only call functions and classes.")
}

func Test_Interpreter_RuntimeError_Arity_Mismatch(t *testing.T) {
	wantRuntimeError(t, `
		fun two(a, b) {}
		two(1);
	`, "Expected 2 arguments but got 1.")
}

func Test_Interpreter_RuntimeError_Property_On_NonInstance(t *testing.T) {
	wantRuntimeError(t, "var x = 1; print x.field;", "Only instances have properties.")
	wantRuntimeError(t, "var x = 1; x.field = 2;", "Only instances have fields.")
}

func Test_Interpreter_RuntimeError_Undefined_Property(t *testing.T) {
	wantRuntimeError(t, `
		class C {}
		print C().missing;
	`, "Undefined property 'missing'.")
}

func Test_Interpreter_RuntimeError_Undefined_Super_Method(t *testing.T) {
	wantRuntimeError(t, `
		class A {}
		class B < A {
			m() { super.nothing(); }
		}
		B().m();
	`, "Undefined property 'nothing'.")
}

func Test_Interpreter_RuntimeError_Superclass_Not_A_Class(t *testing.T) {
	wantRuntimeError(t, `
		var NotAClass = "so not a class";
		class C < NotAClass {}
	`, "Superclass must be a class.")
}

func Test_Interpreter_RuntimeError_Carries_Line(t *testing.T) {
	ip := NewInterpreter()
	ip.SetOutput(&bytes.Buffer{})
	err := ip.Run("var ok = 1;\nprint missing;")
	rte, isRTE := err.(*RuntimeError)
	if !isRTE {
		t.Fatalf("want *RuntimeError, got %T", err)
	}
	if rte.Tok.Line != 2 {
		t.Fatalf("want line 2, got %d", rte.Tok.Line)
	}
	if !strings.Contains(rte.Error(), "[line 2]") {
		t.Fatalf("rendered error missing line: %q", rte.Error())
	}
}

func Test_Interpreter_State_Survives_RuntimeError(t *testing.T) {
	// REPL contract: a runtime error resets the current frame to globals
	// but keeps global state.
	ip := NewInterpreter()
	var buf bytes.Buffer
	ip.SetOutput(&buf)

	if err := ip.Run("var a = 1;"); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := ip.Run("{ var b = 2; print missing; }"); err == nil {
		t.Fatal("want runtime error")
	}
	if err := ip.Run("print a;"); err != nil {
		t.Fatalf("globals lost after runtime error: %v", err)
	}
	wantLines(t, buf.String(), "1")
}

func Test_Interpreter_Evaluate_Single_Expression(t *testing.T) {
	ip := NewInterpreter()
	stmts, err := ParseSource("1 + 2 * 3;")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := NewResolver(ip).ResolveProgram(stmts); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	v, err := ip.Evaluate(stmts[0].(*ExprStmt).Expression)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if v.Tag != VTNum || v.Data.(float64) != 7 {
		t.Fatalf("want 7, got %#v", v)
	}
}
