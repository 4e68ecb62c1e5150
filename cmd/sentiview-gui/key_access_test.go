package main

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
	"testing"
)

// The GUI reads keys from the keychain only; environment variables are a CLI feature.
func TestGUIKeyAccess_KeychainOnly(t *testing.T) {
	paths, err := filepath.Glob("*.go")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	fset := token.NewFileSet()
	for _, path := range paths {
		if strings.HasSuffix(path, "_test.go") {
			continue
		}
		file, err := parser.ParseFile(fset, path, nil, 0)
		if err != nil {
			t.Fatalf("parse %s: %v", path, err)
		}
		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			if pkg, ok := sel.X.(*ast.Ident); !ok || pkg.Name != "auth" {
				return true
			}
			switch sel.Sel.Name {
			case "GetEnvKey", "PromptForAPIKey":
				t.Errorf("%s: auth.%s must not be used by the GUI", path, sel.Sel.Name)
			case "GetKey":
				if ident, ok := call.Args[1].(*ast.Ident); !ok || ident.Name != "false" {
					t.Errorf("%s: auth.GetKey allowEnv must be literal false", path)
				}
			}
			return true
		})
	}
}
