// turbo-katana compiles a class-based source program, handed off by the
// parser as a YAML AST document, into a textual stack-VM program.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/OopsOverflow/turbo-katana/pkg/ast"
	"github.com/OopsOverflow/turbo-katana/pkg/astio"
	"github.com/OopsOverflow/turbo-katana/pkg/check"
	"github.com/OopsOverflow/turbo-katana/pkg/codegen"
	"github.com/OopsOverflow/turbo-katana/pkg/layout"
	"github.com/OopsOverflow/turbo-katana/pkg/types"
)

var version = "0.1.0"

var (
	outputPath string
	checkOnly  bool
	dVtables   bool
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "turbo-katana [file]",
		Short: "turbo-katana compiles class programs to stack-VM code",
		Long: `turbo-katana checks a parsed program of class declarations plus a
top-level statement and emits a textual program for the stack VM.
The input file is the parser's YAML AST hand-off.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Help()
				return nil
			}
			return compile(args[0], out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write VM program to file instead of stdout")
	rootCmd.Flags().BoolVar(&checkOnly, "check-only", false, "Run the contextual checker and stop")
	rootCmd.Flags().BoolVar(&dVtables, "dvtables", false, "Dump vtable layouts instead of compiling")

	return rootCmd
}

func compile(filename string, out, errOut io.Writer) error {
	prog, err := astio.LoadFile(filename)
	if err != nil {
		fmt.Fprintf(errOut, "turbo-katana: %v\n", err)
		return err
	}

	if err := check.All(prog); err != nil {
		var cerr *check.ContextualError
		if errors.As(err, &cerr) {
			fmt.Fprintf(errOut, "turbo-katana: %s: %s: %s\n", filename, cerr.Category, cerr.Message)
		} else {
			fmt.Fprintf(errOut, "turbo-katana: %s: %v\n", filename, err)
		}
		return err
	}

	if dVtables {
		dumpVtables(prog, out)
		return nil
	}
	if checkOnly {
		return nil
	}

	dest := out
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			fmt.Fprintf(errOut, "turbo-katana: %v\n", err)
			return err
		}
		defer f.Close()
		dest = f
	}
	codegen.Generate(dest, prog)
	return nil
}

func dumpVtables(prog *ast.Program, out io.Writer) {
	ix := types.NewIndex(prog)
	for _, d := range ix.Decls {
		fmt.Fprintf(out, "%s:\n", d.Name)
		for i, s := range layout.Make(ix, d) {
			fmt.Fprintf(out, "  %d: %s\n", i, layout.MethodLabel(s.Class, s.Method))
		}
	}
}
