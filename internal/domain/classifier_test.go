package domain

import (
	"testing"

	m "narrow.dev/pkg/narrow/internal/model"
)

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name string
		path string
		src  string
		want m.ContextTag
	}{
		{
			name: "markup attribute handler",
			path: "button.tsx",
			src:  "const el = <div onClick={(e: any) => e} />;\n",
			want: m.ContextJSX,
		},
		{
			name: "comparison operand",
			path: "cmp.ts",
			src:  "const ok = (value as any) === 1;\n",
			want: m.ContextComparison,
		},
		{
			name: "arithmetic operand",
			path: "sum.ts",
			src:  "const sum = (value as any) + 1;\n",
			want: m.ContextArithmetic,
		},
		{
			name: "function parameter",
			path: "fn.ts",
			src:  "function save(a: any) {}\n",
			want: m.ContextFunction,
		},
		{
			name: "host environment initializer",
			path: "dom.ts",
			src:  "const node: any = document.getElementById(\"root\");\n",
			want: m.ContextHostEnvironment,
		},
		{
			name: "array element",
			path: "list.ts",
			src:  "let xs: any[] = [];\n",
			want: m.ContextArrayElement,
		},
		{
			name: "interface member",
			path: "shape.ts",
			src:  "interface Shape { b: any }\n",
			want: m.ContextObjectMember,
		},
		{
			name: "bare alias",
			path: "alias.ts",
			src:  "type Loose = any;\n",
			want: m.ContextUnknown,
		},
	}

	classifier := NewClassifier()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := parseUnit(t, tt.path, tt.src)

			got := classifier.Classify(unit, firstEscapeHatch(t, unit))
			if got != tt.want {
				t.Fatalf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifier_MarkupWinsOverFunction(t *testing.T) {
	unit := parseUnit(t, "list.tsx", "const list = <ul>{items.map((item: any) => <li>{item}</li>)}</ul>;\n")

	if got := NewClassifier().Classify(unit, firstEscapeHatch(t, unit)); got != m.ContextJSX {
		t.Fatalf("Classify() = %q, want %q", got, m.ContextJSX)
	}
}
