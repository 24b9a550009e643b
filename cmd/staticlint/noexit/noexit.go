// Package noexit содержит анализатор, запрещающий прямой вызов os.Exit
// в функции main пакета main.
package noexit

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// NoExitAnalyzer проверяет отсутствие прямых вызовов os.Exit в функции main
var NoExitAnalyzer = &analysis.Analyzer{
	Name: "noexit",
	Doc:  "запрещает использование прямого вызова os.Exit в функции main пакета main",
	Run:  run,
}

// run обходит AST в поисках вызовов os.Exit внутри main
func run(pass *analysis.Pass) (interface{}, error) {
	// Зависимости не анализируем, только файлы проекта
	if !strings.HasPrefix(pass.Fset.Position(pass.Files[0].Pos()).Filename, pass.Pkg.Path()) {
		return nil, nil
	}

	for _, file := range pass.Files {
		if file.Name.Name != "main" {
			continue
		}
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Name.Name != "main" || fn.Body == nil {
				continue
			}
			checkMainBody(pass, fn.Body)
		}
	}

	return nil, nil
}

// checkMainBody сообщает о каждом вызове os.Exit в теле функции main
func checkMainBody(pass *analysis.Pass, body *ast.BlockStmt) {
	ast.Inspect(body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || sel.Sel.Name != "Exit" {
			return true
		}

		// Убеждаемся, что селектор указывает именно на пакет os
		ident, ok := sel.X.(*ast.Ident)
		if !ok {
			return true
		}
		if pkg, ok := pass.TypesInfo.Uses[ident].(*types.PkgName); ok && pkg.Imported().Path() == "os" {
			pass.Reportf(call.Pos(), "прямой вызов os.Exit в функции main запрещен")
		}
		return true
	})
}
