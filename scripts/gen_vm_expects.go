package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"
)

// main generates functional wrappers around every vmTestCase builder method
// that takes arguments, so that test cases may be assembled from data with
// vmTestCase.apply; output is piped through goimports, which runs
// concurrently with generation.
//
// Usage: go run scripts/gen_vm_expects.go -- vm_test.go vm_expects_test.go
func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) != 2 {
		log.Fatalf("usage: gen_vm_expects <test source> <output file>")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := generate(ctx, args[0], args[1]); err != nil {
		log.Fatalln(err)
	}
}

func generate(ctx context.Context, srcName, outName string) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, srcName, nil, 0)
	if err != nil {
		return err
	}

	out, err := os.Create(outName)
	if err != nil {
		return err
	}
	defer out.Close()

	pr, pw := io.Pipe()
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		cmd := exec.CommandContext(ctx, "goimports")
		cmd.Stdin = pr
		cmd.Stdout = out
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			pr.CloseWithError(err)
			return fmt.Errorf("goimports run failed: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		err := writeWrappers(ctx, pw, fset, file, srcName, outName)
		pw.CloseWithError(err)
		return err
	})

	return eg.Wait()
}

func writeWrappers(ctx context.Context, w io.Writer, fset *token.FileSet, file *ast.File, srcName, outName string) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "package %v\n\n", file.Name.Name)
	fmt.Fprintf(&buf, "// @generated from %v\n\n", srcName)
	fmt.Fprintf(&buf, "//go:generate go run scripts/gen_vm_expects.go -- %v %v\n\n", srcName, outName)

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || !isBuilderMethod(fn) {
			continue
		}
		if err := writeWrapper(&buf, fset, fn); err != nil {
			return err
		}
		if _, err := buf.WriteTo(w); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	_, err := buf.WriteTo(w)
	return err
}

// isBuilderMethod matches vmTestCase methods named like withX or expectX that
// take at least one argument and return a vmTestCase.
func isBuilderMethod(fn *ast.FuncDecl) bool {
	if fn.Recv == nil || len(fn.Recv.List) != 1 || !isIdent(fn.Recv.List[0].Type, "vmTestCase") {
		return false
	}
	if name := fn.Name.Name; !strings.HasPrefix(name, "with") && !strings.HasPrefix(name, "expect") {
		return false
	}
	if fn.Type.Params.NumFields() == 0 {
		return false
	}
	res := fn.Type.Results
	return res != nil && len(res.List) == 1 && isIdent(res.List[0].Type, "vmTestCase")
}

func isIdent(expr ast.Expr, name string) bool {
	id, ok := expr.(*ast.Ident)
	return ok && id.Name == name
}

// writeWrapper writes a function named like withVMX for a method withX (or
// expectVMX for expectX) that returns a closure calling the method.
func writeWrapper(buf *bytes.Buffer, fset *token.FileSet, fn *ast.FuncDecl) error {
	name := fn.Name.Name
	prefix := "with"
	if strings.HasPrefix(name, "expect") {
		prefix = "expect"
	}

	var params, args []string
	for _, field := range fn.Type.Params.List {
		var typ bytes.Buffer
		if err := printer.Fprint(&typ, fset, field.Type); err != nil {
			return err
		}
		_, variadic := field.Type.(*ast.Ellipsis)
		for _, id := range field.Names {
			params = append(params, id.Name+" "+typ.String())
			if variadic {
				args = append(args, id.Name+"...")
			} else {
				args = append(args, id.Name)
			}
		}
	}

	fmt.Fprintf(buf, "func %vVM%v(%v) func(vmTestCase) vmTestCase {\n",
		prefix, strings.TrimPrefix(name, prefix), strings.Join(params, ", "))
	fmt.Fprintf(buf, "\treturn func(vmt vmTestCase) vmTestCase {\n")
	fmt.Fprintf(buf, "\t\treturn vmt.%v(%v)\n", name, strings.Join(args, ", "))
	fmt.Fprintf(buf, "\t}\n}\n\n")
	return nil
}
