//go:build governance

package core_test

import (
	"go/types"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"
)

// TestGovernance_NoCoreReexports ensures library packages use core types
// directly instead of re-exporting them as aliases.
func TestGovernance_NoCoreReexports(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedTypes}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/...")
	require.NoError(t, err)

	for _, pkg := range pkgs {
		if pkg.PkgPath == modulePath+"/pkg/core" || len(pkg.Errors) > 0 {
			continue
		}
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !tn.Exported() || !tn.IsAlias() {
				continue
			}
			named, ok := types.Unalias(tn.Type()).(*types.Named)
			if !ok || named.Obj().Pkg() == nil {
				continue
			}
			if named.Obj().Pkg().Path() == modulePath+"/pkg/core" {
				t.Errorf("%s re-exports core.%s as an alias; use core.%s directly",
					strings.TrimPrefix(pkg.PkgPath, modulePath+"/"), named.Obj().Name(), named.Obj().Name())
			}
		}
	}
}

// TestGovernance_PkgDoesNotImportInternal keeps pkg/ usable outside this module.
func TestGovernance_PkgDoesNotImportInternal(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/...")
	require.NoError(t, err)

	for _, pkg := range pkgs {
		for path := range pkg.Imports {
			if strings.HasPrefix(path, modulePath+"/internal/") {
				t.Errorf("%s imports %s", strings.TrimPrefix(pkg.PkgPath, modulePath+"/"), path)
			}
		}
	}
}
