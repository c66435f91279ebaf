package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferFromName(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"id", typeString, true},
		{"userId", typeString, true},
		{"title", typeString, true},
		{"isOpen", typeBoolean, true},
		{"disabled", typeBoolean, true},
		{"userCount", typeNumber, true},
		{"pageSize", typeNumber, true},
		{"retryLimit", typeNumber, true},
		{"createdAt", typeDateOrStr, true},
		{"onSubmit", typeFunction, true},
		{"clickHandler", typeFunction, true},
		{"settings", typeRecord, true},
		{"items", typeList, true},
		{"users", typeList, true},
		{"admin", "", false},
		{"image", "", false},
		{"status", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := inferFromName(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInferFromLiteral(t *testing.T) {
	tests := []struct {
		expr   string
		want   string
		wantOK bool
	}{
		{"42", typeNumber, true},
		{"-1", typeNumber, true},
		{`"label"`, typeString, true},
		{"`tpl`", typeString, true},
		{"false", typeBoolean, true},
		{"[]", typeList, true},
		{"{}", typeRecord, true},
		{"() => 1", typeFunction, true},
		{"new Date()", "Date", true},
		{"(7)", typeNumber, true},
		{"-inf", "", false},
		{"!5", "", false},
		{"other", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			unit := parseUnit(t, "literal.ts", "const v = "+tt.expr+";\n")
			value := firstOfKind(t, unit, kindVariableDecl).ChildByFieldName("value")

			got, ok := inferFromLiteral(value, unit.Text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
