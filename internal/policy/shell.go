package policy

import (
	"errors"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/toolgate/toolgate/internal/patterns"
)

// ErrUnparseable is returned when a command cannot be parsed as shell.
var ErrUnparseable = errors.New("unparseable command")

// SplitCommandChain splits a shell command into its simple-command
// segments, descending through &&, ||, ;, |, &, subshells, blocks and
// control structures. Quoted strings and redirections stay attached to
// their segment. Returns ErrUnparseable on shell syntax errors.
func SplitCommandChain(cmd string) ([]string, error) {
	if strings.TrimSpace(cmd) == "" {
		return nil, nil
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(cmd), "")
	if err != nil {
		return nil, ErrUnparseable
	}

	printer := syntax.NewPrinter()
	var segments []string
	for _, stmt := range prog.Stmts {
		collectSegments(stmt, printer, &segments)
	}
	return segments, nil
}

// collectSegments walks a shell AST statement, descending into compound
// commands and printing the leaves. Leaves are printed as whole
// statements so redirections stay attached to their segment.
func collectSegments(stmt *syntax.Stmt, printer *syntax.Printer, segments *[]string) {
	if stmt == nil || stmt.Cmd == nil {
		return
	}

	appendStmts := func(stmts []*syntax.Stmt) {
		for _, s := range stmts {
			collectSegments(s, printer, segments)
		}
	}

	switch cmd := stmt.Cmd.(type) {
	case *syntax.BinaryCmd:
		collectSegments(cmd.X, printer, segments)
		collectSegments(cmd.Y, printer, segments)
	case *syntax.Subshell:
		appendStmts(cmd.Stmts)
	case *syntax.Block:
		appendStmts(cmd.Stmts)
	case *syntax.IfClause:
		for clause := cmd; clause != nil; clause = clause.Else {
			appendStmts(clause.Cond)
			appendStmts(clause.Then)
		}
	case *syntax.WhileClause:
		appendStmts(cmd.Cond)
		appendStmts(cmd.Do)
	case *syntax.ForClause:
		appendStmts(cmd.Do)
	case *syntax.CaseClause:
		for _, item := range cmd.Items {
			appendStmts(item.Stmts)
		}
	case *syntax.TimeClause:
		collectSegments(cmd.Stmt, printer, segments)
	case *syntax.CoprocClause:
		collectSegments(cmd.Stmt, printer, segments)
	case *syntax.FuncDecl:
		collectSegments(cmd.Body, printer, segments)
	default:
		// CallExpr, DeclClause, LetClause, ArithmCmd, TestClause and
		// anything new. Print a copy of the statement, not just the
		// command node, so Redirs are kept. Background, coprocess and
		// negation markers are dropped: "! rm -rf /" still runs rm and
		// must look like it to the patterns.
		leaf := *stmt
		leaf.Background = false
		leaf.Coprocess = false
		leaf.Negated = false
		leaf.Comments = nil

		var buf strings.Builder
		printer.Print(&buf, &leaf)
		if s := strings.TrimSpace(buf.String()); s != "" {
			*segments = append(*segments, s)
		}
	}
}

// StripWrappers removes safe wrapper prefixes from a command, repeatedly,
// until none apply. Returns the core command and the wrapper names removed.
func StripWrappers(cmd string, wrappers []patterns.Pattern) (string, []string) {
	var names []string
	for {
		stripped := false
		for _, p := range wrappers {
			loc := p.Regex.FindStringIndex(cmd)
			if loc != nil && loc[0] == 0 {
				names = append(names, p.Name)
				cmd = cmd[loc[1]:]
				stripped = true
				break
			}
		}
		if !stripped {
			return strings.TrimSpace(cmd), names
		}
	}
}
