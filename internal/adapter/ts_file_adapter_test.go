package adapter

import (
	"context"
	"errors"
	"testing"

	m "narrow.dev/pkg/narrow/internal/model"
)

func TestLocalTSFileAdapter_Parse(t *testing.T) {
	adapter := NewLocalTSFileAdapter()

	src := []byte("export function load(data: any): void {}\n")

	unit, err := adapter.Parse(context.Background(), "load.ts", src, "h1")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	defer unit.Close()

	if unit.Root == nil {
		t.Fatalf("Parse() returned unit without root")
	}

	if unit.Root.Type() != "program" {
		t.Fatalf("Parse() root = %s, want program", unit.Root.Type())
	}

	if unit.Hash != "h1" || unit.Path != "load.ts" {
		t.Fatalf("Parse() unit metadata = (%s, %s)", unit.Path, unit.Hash)
	}
}

func TestLocalTSFileAdapter_Parse_EmptyInput(t *testing.T) {
	adapter := NewLocalTSFileAdapter()

	unit, err := adapter.Parse(context.Background(), "empty.ts", []byte{}, "")
	if err != nil {
		t.Fatalf("Parse() error = %v, want empty program", err)
	}
	defer unit.Close()

	if unit.Root.Type() != "program" {
		t.Fatalf("Parse() root = %s, want program", unit.Root.Type())
	}

	if unit.Root.HasError() || unit.Root.NamedChildCount() != 0 {
		t.Fatalf("Parse() empty input produced %d children, error = %v", unit.Root.NamedChildCount(), unit.Root.HasError())
	}
}

func TestLocalTSFileAdapter_Parse_TSX(t *testing.T) {
	adapter := NewLocalTSFileAdapter()

	src := []byte("export const Button = (props: any) => <button onClick={props.onClick}>ok</button>;\n")

	unit, err := adapter.Parse(context.Background(), "Button.tsx", src, "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	defer unit.Close()

	if unit.Root.HasError() {
		t.Fatalf("Parse() produced syntax errors for valid TSX")
	}
}

func TestLocalTSFileAdapter_Parse_ToleratesSyntaxErrors(t *testing.T) {
	adapter := NewLocalTSFileAdapter()

	unit, err := adapter.Parse(context.Background(), "broken.ts", []byte("function f(a: any {\n"), "")
	if err != nil {
		t.Fatalf("Parse() error = %v, want partial tree", err)
	}
	defer unit.Close()

	if !unit.Root.HasError() {
		t.Fatalf("Parse() expected tree with errors")
	}
}

func TestLocalTSFileAdapter_Parse_InvalidUTF8(t *testing.T) {
	adapter := NewLocalTSFileAdapter()

	_, err := adapter.Parse(context.Background(), "bad.ts", []byte{0xff, 0xfe, 0xfd}, "")
	if !errors.Is(err, m.ErrParseFailure) {
		t.Fatalf("Parse() error = %v, want ErrParseFailure", err)
	}
}

func TestLocalTSFileAdapter_Parse_ContextCancellation(t *testing.T) {
	adapter := NewLocalTSFileAdapter()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := adapter.Parse(ctx, "a.ts", []byte("let a: any;"), ""); err == nil {
		t.Fatalf("Parse() expected error due to context cancellation")
	}
}

func TestIsTypeScriptFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.ts", true},
		{"a.tsx", true},
		{"a.mts", true},
		{"A.TSX", true},
		{"a.d.ts", false},
		{"a.js", false},
		{"a.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsTypeScriptFile(tt.path, DefaultExtensions); got != tt.want {
				t.Fatalf("IsTypeScriptFile(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
