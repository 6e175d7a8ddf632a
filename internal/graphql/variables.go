package graphql

import (
	"bytes"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

// DropUnsetVariables rewrites query so that field arguments bound to a
// nullable variable missing from vars are left out instead of being
// passed as null. Variables with a default value and non-null variables
// are kept. A query that does not parse or needs no change is returned
// unchanged.
func DropUnsetVariables(query, operationName string, vars map[string]interface{}) string {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return query
	}

	op := selectOperation(doc, operationName)
	if op == nil {
		return query
	}

	unset := make(map[string]bool)
	for _, def := range op.VariableDefinitions {
		if _, ok := vars[def.Variable]; ok {
			continue
		}
		if def.Type == nil || def.Type.NonNull || def.DefaultValue != nil {
			continue
		}
		unset[def.Variable] = true
	}
	if len(unset) == 0 {
		return query
	}

	dropped := dropArguments(op.SelectionSet, unset)
	// Fragments are shared between operations, so only touch them when
	// there is a single one.
	if len(doc.Operations) == 1 {
		for _, frag := range doc.Fragments {
			if dropArguments(frag.SelectionSet, unset) {
				dropped = true
			}
		}
	}
	if !dropped {
		return query
	}

	used := make(map[string]bool)
	collectDirectives(op.Directives, used)
	collectVariables(op.SelectionSet, used)
	for _, frag := range doc.Fragments {
		collectVariables(frag.SelectionSet, used)
	}

	defs := make(ast.VariableDefinitionList, 0, len(op.VariableDefinitions))
	for _, def := range op.VariableDefinitions {
		if unset[def.Variable] && !used[def.Variable] {
			continue
		}
		defs = append(defs, def)
	}
	op.VariableDefinitions = defs

	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatQueryDocument(doc)
	return buf.String()
}

func selectOperation(doc *ast.QueryDocument, name string) *ast.OperationDefinition {
	if name == "" {
		if len(doc.Operations) == 1 {
			return doc.Operations[0]
		}
		return nil
	}
	return doc.Operations.ForName(name)
}

func dropArguments(set ast.SelectionSet, unset map[string]bool) bool {
	dropped := false
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			kept := make(ast.ArgumentList, 0, len(s.Arguments))
			for _, arg := range s.Arguments {
				if arg.Value != nil && arg.Value.Kind == ast.Variable && unset[arg.Value.Raw] {
					dropped = true
					continue
				}
				kept = append(kept, arg)
			}
			s.Arguments = kept
			if dropArguments(s.SelectionSet, unset) {
				dropped = true
			}
		case *ast.InlineFragment:
			if dropArguments(s.SelectionSet, unset) {
				dropped = true
			}
		}
	}
	return dropped
}

func collectVariables(set ast.SelectionSet, used map[string]bool) {
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			for _, arg := range s.Arguments {
				collectValue(arg.Value, used)
			}
			collectDirectives(s.Directives, used)
			collectVariables(s.SelectionSet, used)
		case *ast.InlineFragment:
			collectDirectives(s.Directives, used)
			collectVariables(s.SelectionSet, used)
		case *ast.FragmentSpread:
			collectDirectives(s.Directives, used)
		}
	}
}

func collectDirectives(directives ast.DirectiveList, used map[string]bool) {
	for _, d := range directives {
		for _, arg := range d.Arguments {
			collectValue(arg.Value, used)
		}
	}
}

func collectValue(v *ast.Value, used map[string]bool) {
	if v == nil {
		return
	}
	if v.Kind == ast.Variable {
		used[v.Raw] = true
	}
	for _, child := range v.Children {
		collectValue(child.Value, used)
	}
}
