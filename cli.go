package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `plc - compiler front end for the Pecco language

Usage:
    plc <command> [arguments]

Commands:
    lex <file>      Tokenize a .pec file and print the token stream
    parse <file>    Parse a .pec file and print the flat AST
    check <file>    Run the full front end (parse, collect, resolve)
    symbols <file>  Print the symbol table and scope hierarchy
    help            Show this help message

Examples:
    plc lex examples/sample.pec
    plc parse examples/sample.pec
    plc check myfile.pec
    plc symbols -hide-prelude myfile.pec

Use "plc <command> -h" for more information about a command.
`)
}

func lexCommand(args []string) {
	fs := flag.NewFlagSet("lex", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: plc lex <file>\n")
		fmt.Fprintf(os.Stderr, "Tokenize a .pec file and print the token stream\n")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	filename, source := readSourceArg(fs)

	tokens := NewLexer(source).TokenizeAll()

	hasError := false
	for _, tok := range tokens {
		if tok.Kind == TokenError {
			hasError = true
			fmt.Fprintf(os.Stderr, "plc: error: lexer error at %s:%d:%d: %s\n",
				filename, tok.Line, tok.Column, tok.Lexeme)
			printSourceLine(os.Stderr, source, tok.Line, tok.Column, tok.EndColumn, tok.ErrorOffset)
		} else {
			printToken(tok)
		}
	}

	if hasError {
		os.Exit(1)
	}
}

func parseCommand(args []string) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: plc parse <file>\n")
		fmt.Fprintf(os.Stderr, "Parse a .pec file and print the flat AST (no resolution)\n")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	filename, source := readSourceArg(fs)

	stmts, ok := lexAndParse(filename, source)
	if !ok {
		os.Exit(1)
	}

	fmt.Println("AST:")
	for _, stmt := range stmts {
		fmt.Println(StmtToSExpr(stmt))
	}
}

func checkCommand(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	preludePath := fs.String("prelude", "", "Path to a prelude file (default: built-in prelude)")
	verbose := fs.Bool("v", false, "Show the resolved AST")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: plc check [-prelude file] [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Run the full front end on a .pec file\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	filename, source := readSourceArg(fs)

	stmts, _, ok := runFrontEnd(filename, source, *preludePath)
	if !ok {
		os.Exit(1)
	}

	fmt.Printf("%s: no errors found\n", filename)

	if *verbose {
		fmt.Println("Resolved AST:")
		for _, stmt := range stmts {
			fmt.Println(StmtToSExpr(stmt))
		}
	}
}

func symbolsCommand(args []string) {
	fs := flag.NewFlagSet("symbols", flag.ExitOnError)
	preludePath := fs.String("prelude", "", "Path to a prelude file (default: built-in prelude)")
	hidePrelude := fs.Bool("hide-prelude", false, "Hide prelude symbols in the output")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: plc symbols [-prelude file] [-hide-prelude] <file>\n")
		fmt.Fprintf(os.Stderr, "Print the symbol table and scope hierarchy of a .pec file\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	filename, source := readSourceArg(fs)

	_, symbols, ok := runFrontEnd(filename, source, *preludePath)
	if !ok {
		os.Exit(1)
	}

	printHierarchicalSymbols(symbols, *hidePrelude)
}

// runFrontEnd runs the staged pipeline: lex, parse, prelude load, user
// declaration collection, operator resolution. Each stage gates the next;
// diagnostics go to stderr with source excerpts.
func runFrontEnd(filename, source, preludePath string) ([]Stmt, *ScopedSymbolTable, bool) {
	stmts, ok := lexAndParse(filename, source)
	if !ok {
		return nil, nil, false
	}

	symbols := NewScopedSymbolTable()
	builder := NewSymbolTableBuilder()

	var preludeOK bool
	if preludePath != "" {
		preludeOK = builder.LoadPrelude(preludePath, symbols)
	} else {
		preludeOK = builder.LoadPreludeSource(DefaultPreludeSource(), symbols)
	}
	if !preludeOK {
		fmt.Fprintf(os.Stderr, "plc: error: failed to load prelude\n")
		for _, diag := range builder.Errors.All() {
			fmt.Fprintf(os.Stderr, "  %s\n", diag.Message)
		}
		return nil, nil, false
	}

	if !builder.Collect(stmts, symbols) {
		for _, diag := range builder.Errors.All() {
			fmt.Fprintf(os.Stderr, "plc: error: semantic error at %s:%d:%d: %s\n",
				filename, diag.Line, diag.Column, diag.Message)
			printSourceLine(os.Stderr, source, diag.Line, diag.Column, 0, 0)
		}
		return nil, nil, false
	}

	resolver := NewResolver(symbols.Globals())
	resolver.ResolveStmts(stmts)

	if resolver.Errors.HasErrors() {
		for _, diag := range resolver.Errors.All() {
			fmt.Fprintf(os.Stderr, "plc: error: semantic error at %s:%d:%d: %s\n",
				filename, diag.Line, diag.Column, diag.Message)
			printSourceLine(os.Stderr, source, diag.Line, diag.Column, 0, 0)
		}
		return nil, nil, false
	}

	return stmts, symbols, true
}

func lexAndParse(filename, source string) ([]Stmt, bool) {
	tokens := NewLexer(source).TokenizeAll()

	hasLexerError := false
	for _, tok := range tokens {
		if tok.Kind == TokenError {
			hasLexerError = true
			fmt.Fprintf(os.Stderr, "plc: error: lexer error at %s:%d:%d: %s\n",
				filename, tok.Line, tok.Column, tok.Lexeme)
			printSourceLine(os.Stderr, source, tok.Line, tok.Column, tok.EndColumn, tok.ErrorOffset)
		}
	}
	if hasLexerError {
		return nil, false
	}

	parser := NewParser(tokens)
	stmts := parser.ParseProgram()

	if parser.Errors.HasErrors() {
		for _, diag := range parser.Errors.All() {
			fmt.Fprintf(os.Stderr, "plc: error: parse error at %s:%d:%d: %s\n",
				filename, diag.Line, diag.Column, diag.Message)
			printSourceLine(os.Stderr, source, diag.Line, diag.Column, diag.EndColumn, 0)
		}
		return nil, false
	}

	return stmts, true
}

func readSourceArg(fs *flag.FlagSet) (string, string) {
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	filename := fs.Arg(0)
	sourceBytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}
	return filename, string(sourceBytes)
}

func printToken(tok Token) {
	out := "[" + tok.Kind.String() + "] "
	if tok.Lexeme != "" && tok.Kind != TokenEndOfFile {
		out += "'" + tok.Lexeme + "'"
	}
	fmt.Printf("%s (line %d, col %d)\n", out, tok.Line, tok.Column)
}

// printSourceLine prints the offending line with a gutter and a caret
// marker. Multi-column spans are underlined with '~'; when errorOffset is
// nonzero the character at column+errorOffset gets '^' inside the span.
func printSourceLine(w *os.File, source string, line, column, endColumn, errorOffset int) {
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return
	}

	fmt.Fprintf(w, "  %d | %s\n", line, lines[line-1])
	fmt.Fprint(w, "    | ")

	for i := 1; i < column; i++ {
		fmt.Fprint(w, " ")
	}

	if endColumn > column+1 {
		errorCol := column + errorOffset
		for i := column; i < endColumn; i++ {
			if errorOffset > 0 && i == errorCol {
				fmt.Fprint(w, "^")
			} else {
				fmt.Fprint(w, "~")
			}
		}
	} else {
		fmt.Fprint(w, "^")
	}

	fmt.Fprintln(w)
}

func printHierarchicalSymbols(symbols *ScopedSymbolTable, hidePrelude bool) {
	fmt.Println("Hierarchical Symbol Table:")

	fmt.Println("\nGlobal Functions:")
	printedAny := false
	for _, name := range symbols.Globals().AllFunctionNames() {
		for _, fn := range symbols.Globals().FindFunctions(name) {
			if hidePrelude && fn.Origin == OriginPrelude {
				continue
			}
			printedAny = true

			out := "  " + name + "(" + strings.Join(fn.ParamTypes, ", ") + ")"
			if fn.ReturnType != "" {
				out += " : " + fn.ReturnType
			}
			if fn.IsDeclarationOnly {
				out += " [declaration]"
			}
			if fn.Origin == OriginPrelude {
				out += " [prelude]"
			}
			fmt.Println(out)
		}
	}
	if !printedAny && !hidePrelude {
		fmt.Println("  (none)")
	}

	fmt.Println("\nOperators:")
	printedAny = false
	for _, info := range symbols.Globals().AllOperators() {
		if hidePrelude && info.Origin == OriginPrelude {
			continue
		}
		printedAny = true

		out := "  " + info.Position.String() + " " + info.Op +
			"(" + strings.Join(info.Signature.ParamTypes, ", ") + ") : " + info.Signature.ReturnType
		if info.Position == Infix {
			out += " [prec " + itoa(info.Precedence)
			switch info.Assoc {
			case AssocRight:
				out += ", assoc right"
			case AssocNone:
				out += ", assoc none"
			}
			out += "]"
		}
		if info.Origin == OriginPrelude {
			out += " [prelude]"
		}
		fmt.Println(out)
	}
	if !printedAny {
		fmt.Println("  (none)")
	}

	fmt.Println("\nScope Hierarchy:")
	printScope(symbols.RootScope(), 0, hidePrelude)
}

func printScope(scope *Scope, indent int, hidePrelude bool) {
	indentStr := strings.Repeat("  ", indent)

	desc := scope.Description()
	if desc == "" {
		desc = "global"
	}
	fmt.Printf("%sScope [%s]:\n", indentStr, desc)

	printedHeader := false
	for _, v := range scope.LocalVariables() {
		if hidePrelude && v.Origin == OriginPrelude {
			continue
		}
		if !printedHeader {
			fmt.Printf("%s  Variables:\n", indentStr)
			printedHeader = true
		}

		out := indentStr + "    " + v.Name
		if v.Type != "" {
			out += " : " + v.Type
		}
		out += " (line " + itoa(v.Line) + ")"
		if v.Origin == OriginPrelude {
			out += " [prelude]"
		}
		fmt.Println(out)
	}

	for _, child := range scope.Children() {
		printScope(child, indent+1, hidePrelude)
	}
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "lex":
		lexCommand(args)
	case "parse":
		parseCommand(args)
	case "check":
		checkCommand(args)
	case "symbols":
		symbolsCommand(args)
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showUsage()
		os.Exit(1)
	}
}
