package hcl

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// newEvalContext exposes environ (KEY=value pairs) to HCL expressions as
// the env object and the env(name) function. Unset names read as "".
func newEvalContext(environ []string) *hcl.EvalContext {
	values := make(map[string]string, len(environ))
	vars := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		values[name] = value
		if hclsyntax.ValidIdentifier(name) {
			vars[name] = cty.StringVal(value)
		}
	}

	envFunc := function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "name", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			return cty.StringVal(values[args[0].AsString()]), nil
		},
	})

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
		Functions: map[string]function.Function{
			"env": envFunc,
		},
	}
}
