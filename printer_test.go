package lox

import "testing"

func Test_FormatValue_Primitives(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Nil, "nil"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Num(7), "7"},
		{Num(2.5), "2.5"},
		{Num(-0.5), "-0.5"},
		{Num(10000000000), "10000000000"},
		{Str("raw contents"), "raw contents"},
		{Str(""), ""},
	}
	for _, c := range cases {
		if got := FormatValue(c.v); got != c.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func Test_FormatValue_Callables_And_Instances(t *testing.T) {
	fn := &Function{Decl: &FunctionStmt{Name: Token{Type: IDENTIFIER, Lexeme: "makeCounter"}}}
	if got := FormatValue(Value{Tag: VTFun, Data: fn}); got != "<fn makeCounter>" {
		t.Fatalf("function form: %q", got)
	}

	cls := &Class{Name: "Bagel"}
	if got := FormatValue(Value{Tag: VTClass, Data: cls}); got != "Bagel" {
		t.Fatalf("class form: %q", got)
	}

	inst := &Instance{Class: cls, Fields: map[string]Value{}}
	if got := FormatValue(Value{Tag: VTInstance, Data: inst}); got != "Bagel instance" {
		t.Fatalf("instance form: %q", got)
	}

	native := &NativeFun{Name: "clock"}
	if got := FormatValue(Value{Tag: VTNative, Data: native}); got != "<native fn>" {
		t.Fatalf("native form: %q", got)
	}
}

func Test_FormatExpr_Prefix_Form(t *testing.T) {
	// (- 123) * (group 45.67), the book's printer example.
	e := &Binary{
		Left:     &Unary{Operator: Token{Type: MINUS, Lexeme: "-"}, Right: &Literal{Value: 123.0}},
		Operator: Token{Type: STAR, Lexeme: "*"},
		Right:    &Grouping{Expression: &Literal{Value: 45.67}},
	}
	if got := FormatExpr(e); got != "(* (- 123) (group 45.67))" {
		t.Fatalf("FormatExpr = %q", got)
	}
}

func Test_Truthiness_Rules(t *testing.T) {
	if Truthy(Nil) || Truthy(Bool(false)) {
		t.Fatal("nil and false must be falsey")
	}
	for _, v := range []Value{Bool(true), Num(0), Str(""), Str("x")} {
		if !Truthy(v) {
			t.Fatalf("%v must be truthy", v)
		}
	}
}

func Test_Equality_Rules(t *testing.T) {
	if !Equal(Nil, Nil) {
		t.Fatal("nil == nil")
	}
	if Equal(Nil, Bool(false)) {
		t.Fatal("nil equals only nil")
	}
	if !Equal(Num(1), Num(1)) || Equal(Num(1), Str("1")) {
		t.Fatal("numeric equality is by value and tag")
	}

	// Callables and instances compare by identity.
	cls := &Class{Name: "C"}
	a := Value{Tag: VTInstance, Data: &Instance{Class: cls, Fields: map[string]Value{}}}
	b := Value{Tag: VTInstance, Data: &Instance{Class: cls, Fields: map[string]Value{}}}
	if Equal(a, b) {
		t.Fatal("distinct instances must not be equal")
	}
	if !Equal(a, a) {
		t.Fatal("an instance equals itself")
	}
}
