package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/zin-lang/zin"
	"github.com/zin-lang/zin/ast"
	"github.com/zin-lang/zin/interp"
)

var (
	file = flag.String("file", "", "Source file")
)

func main() {
	flag.Parse()
	if *file == "" {
		log.Fatal("--file is required")
	}
	prog, err := zin.CompileFile(*file)
	if err != nil {
		log.Fatalf("couldn't compile: %s", err)
	}
	trace(prog)
}

func trace(prog *ast.Program) {
	steps := 0
	tracer := func(s ast.Stmt, frame *interp.StackFrame) {
		steps++
		fmt.Println("*******")
		prettyPrint(s, frame)
	}
	err := interp.New(prog, interp.WithTracer(tracer), interp.WithDebug(os.Stdout)).Run()
	if err != nil {
		log.Fatalln("Got err:", err)
	}
	fmt.Printf("Finished after %d steps\n", steps)
}

func prettyPrint(s ast.Stmt, f *interp.StackFrame) {
	name := f.Function
	if name == "" {
		name = ast.MainBlock
	}
	fmt.Printf("Function: %s\n", name)
	fmt.Printf("Variables: %s\n", f.PrettyPrint())
	fmt.Printf("NextStmt: %s\n", ast.FormatStmt(s))
}
