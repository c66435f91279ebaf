package domain

import (
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"
)

type nameHeuristic struct {
	pattern *regexp.Regexp
	typ     string
}

// nameHeuristics guess a type from an identifier alone. Config-like names are
// checked before plurals so "settings" stays a record.
var nameHeuristics = []nameHeuristic{
	{regexp.MustCompile(`^(?i:id|key|uuid|guid|slug|name|title|label|email|url|uri|href|path|text|description|message|token|username)$`), typeString},
	{regexp.MustCompile(`[a-z0-9](Id|ID|Key|Name|Url|URL|Path|Email|Title|Label|Text|Message|Token)$`), typeString},
	{regexp.MustCompile(`^(is|has|should|can|did|will|was|show|hide|enable|disable|allow)[A-Z_]`), typeBoolean},
	{regexp.MustCompile(`^(?i:disabled|enabled|visible|hidden|active|selected|checked|open|opened|loading|loaded|required|readonly|valid|invalid|done|expanded|collapsed|dirty|pending)$`), typeBoolean},
	{regexp.MustCompile(`(?i)(count|total|size|length|index|width|height|amount|number|offset|limit|duration|timeout|price|score|level|year)$`), typeNumber},
	{regexp.MustCompile(`^(?i:age|page|num|idx|max|min|port|x|y|z)$`), typeNumber},
	{regexp.MustCompile(`[a-z0-9](Num|Idx|Max|Min|Port|Age|Page)$`), typeNumber},
	{regexp.MustCompile(`(?i)(date|time|timestamp)$`), typeDateOrStr},
	{regexp.MustCompile(`[a-z](At|On)$`), typeDateOrStr},
	{regexp.MustCompile(`^(on|handle)[A-Z]`), typeFunction},
	{regexp.MustCompile(`(?i)(handler|callback|listener|cb)$`), typeFunction},
	{regexp.MustCompile(`(?i)(config|configuration|options|opts|settings|params|props|meta|metadata|context|ctx|payload|data|state|attrs|attributes)$`), typeRecord},
	{regexp.MustCompile(`(?i)(list|items|array|collection|entries|records|rows|values|ids)$`), typeList},
	{regexp.MustCompile(`[a-z][^su]s$`), typeList},
}

// inferFromName applies the name heuristics in order.
func inferFromName(name string) (string, bool) {
	if name == "" {
		return "", false
	}

	for _, h := range nameHeuristics {
		if h.pattern.MatchString(name) {
			return h.typ, true
		}
	}

	return "", false
}

// inferFromLiteral derives a type from an initializer or default value.
func inferFromLiteral(node *sitter.Node, src []byte) (string, bool) {
	node = unwrap(node)
	if node == nil {
		return "", false
	}

	switch node.Type() {
	case "number":
		return typeNumber, true
	case "string", "template_string":
		return typeString, true
	case "true", "false":
		return typeBoolean, true
	case "array":
		return typeList, true
	case "object":
		return typeRecord, true
	case "arrow_function", "function_expression", "function":
		return typeFunction, true
	case "unary_expression":
		if isNumericOperand(node, src) {
			return typeNumber, true
		}
	case "new_expression":
		if fieldText(node, "constructor", src) == "Date" {
			return "Date", true
		}
	}

	return "", false
}
