// Package parser turns patch source text into an ast.Patch (spec §4.1).
// The tokenizer is a hand-rolled, escape-aware scanner in the same style as
// the teacher's internal/services/magda_dsl_parser.go splitMethodChains —
// char-by-char, tracking an in-string/escape flag — rather than a composable
// grammar engine, because the wire format is a small fixed line grammar, not
// a DSL with functional combinators (see SPEC_FULL.md's Domain Stack note).
package parser

import (
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/patch-core/internal/ast"
	"github.com/Conceptual-Machines/patch-core/internal/logger"
	"github.com/Conceptual-Machines/patch-core/internal/patcherr"
)

// statement is one `;`-terminated unit of source, with the line it started
// on (approximate: counted by newlines seen before the statement began).
type statement struct {
	text string
	line int
}

// splitStatements splits src on unescaped ';' characters, mirroring
// magda_dsl_parser.go's depth/escape-tracking loop but keyed on ';' instead
// of matched parens.
func splitStatements(src string) []statement {
	var out []statement
	var cur strings.Builder
	escape := false
	line := 1
	stmtStartLine := 1

	flush := func() {
		text := strings.TrimSpace(cur.String())
		if text != "" {
			out = append(out, statement{text: text, line: stmtStartLine})
		}
		cur.Reset()
	}

	for _, r := range src {
		if r == '\n' {
			line++
		}
		if escape {
			cur.WriteRune(r)
			escape = false
			continue
		}
		switch r {
		case '\\':
			escape = true
			cur.WriteRune(r)
		case ';':
			cur.WriteRune(r)
			flush()
			stmtStartLine = line
		default:
			if cur.Len() == 0 && (r == '\n' || r == '\r' || r == ' ' || r == '\t') {
				stmtStartLine = line
				continue
			}
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

// tokenize splits a statement's body (without its trailing ';') on
// whitespace, preserving backslash-escaped characters as literal runes in
// the resulting token (spec §4.1 step 2: "Backslash-escaped semicolons
// survive as literal tokens").
func tokenize(body string) []string {
	var tokens []string
	var cur strings.Builder
	escape := false

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range body {
		if escape {
			cur.WriteRune(r)
			escape = false
			continue
		}
		switch r {
		case '\\':
			escape = true
		case ' ', '\t', '\r', '\n':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// argTokens converts raw string tokens into ast.Token values (spec §4.1
// step 4).
func argTokens(raw []string) []ast.Token {
	out := make([]ast.Token, len(raw))
	for i, r := range raw {
		out[i] = ast.ParseToken(r)
	}
	return out
}

func atof(raw string, def float64) float64 {
	if n, ok := ast.ParseNumber(raw); ok {
		return n
	}
	return def
}

func atoi(raw string, def int) int {
	return int(atof(raw, float64(def)))
}

// frame is one level of the canvas construction stack (spec §4.1, "Canvas
// stack").
type frame struct {
	canvas *ast.Canvas
}

// Parse parses source text into a Patch, or fails with a *patcherr.Error of
// kind ParseError (spec §4.1 "Fails with").
func Parse(src string) (*ast.Patch, error) {
	statements := splitStatements(src)

	var stack []*frame
	var root *ast.Canvas
	nextCanvasID := 0

	for _, stmt := range statements {
		toks := tokenize(strings.TrimSuffix(stmt.text, ";"))
		if len(toks) < 2 {
			continue // blank or malformed enough to skip per "best-effort" rule
		}
		head, sub := toks[0], toks[1]

		switch {
		case head == "#N" && sub == "canvas":
			c := &ast.Canvas{
				ID:       nextCanvasID,
				X:        atof(tokAt(toks, 2), 0),
				Y:        atof(tokAt(toks, 3), 0),
				Width:    atof(tokAt(toks, 4), 450),
				Height:   atof(tokAt(toks, 5), 300),
				FontSize: atoi(tokAt(toks, 6), 12),
			}
			nextCanvasID++
			if root == nil {
				root = c
			} else {
				c.IsSubpatch = true
				if len(stack) > 0 {
					parent := stack[len(stack)-1].canvas
					parent.Children = append(parent.Children, c)
				}
			}
			stack = append(stack, &frame{canvas: c})

		case head == "#X" && sub == "restore":
			if len(stack) < 2 {
				err := patcherr.Parse("unexpected #X restore with no open subpatch").With("line", stmt.line)
				logger.Error("parser: unterminated restore", err, logger.Fields{"line": stmt.line})
				return nil, err
			}
			child := stack[len(stack)-1].canvas
			stack = stack[:len(stack)-1]
			parent := stack[len(stack)-1].canvas

			// "#X restore x y pd NAME" — tokens[2..]=x y pd NAME...
			if name := restoreName(toks); name != "" {
				child.Name = name
			}
			parent.AddNode(ast.Node{
				Kind: ast.KindObj,
				X:    atof(tokAt(toks, 2), 0),
				Y:    atof(tokAt(toks, 3), 0),
				Name: "pd",
				Args: []ast.Token{ast.SymbolToken(child.Name)},
				Raw:  stmt.text,
			})

		case head == "#X" && sub == "obj":
			cur, err := top(stack, stmt.line)
			if err != nil {
				return nil, err
			}
			name := ""
			if len(toks) > 4 {
				name = toks[4]
			}
			var args []string
			if len(toks) > 5 {
				args = toks[5:]
			}
			cur.AddNode(ast.Node{
				Kind: ast.KindObj,
				X:    atof(tokAt(toks, 2), 0),
				Y:    atof(tokAt(toks, 3), 0),
				Name: name,
				Args: argTokens(args),
				Raw:  stmt.text,
			})

		case head == "#X" && sub == "msg":
			cur, err := top(stack, stmt.line)
			if err != nil {
				return nil, err
			}
			var body []string
			if len(toks) > 4 {
				body = toks[4:]
			}
			cur.AddNode(ast.Node{
				Kind: ast.KindMsg,
				X:    atof(tokAt(toks, 2), 0),
				Y:    atof(tokAt(toks, 3), 0),
				Args: argTokens(body),
				Raw:  stmt.text,
			})

		case head == "#X" && sub == "text":
			cur, err := top(stack, stmt.line)
			if err != nil {
				return nil, err
			}
			var body []string
			if len(toks) > 4 {
				body = toks[4:]
			}
			cur.AddNode(ast.Node{
				Kind: ast.KindText,
				X:    atof(tokAt(toks, 2), 0),
				Y:    atof(tokAt(toks, 3), 0),
				Args: argTokens(body),
				Raw:  stmt.text,
			})

		case head == "#X" && (sub == "floatatom" || sub == "symbolatom"):
			cur, err := top(stack, stmt.line)
			if err != nil {
				return nil, err
			}
			kind := ast.KindFloatAtom
			if sub == "symbolatom" {
				kind = ast.KindSymbolAtom
			}
			cur.AddNode(ast.Node{
				Kind:         kind,
				X:            atof(tokAt(toks, 2), 0),
				Y:            atof(tokAt(toks, 3), 0),
				Width:        atof(tokAt(toks, 4), 5),
				Min:          atof(tokAt(toks, 5), 0),
				Max:          atof(tokAt(toks, 6), 0),
				Position:     atof(tokAt(toks, 7), 0),
				Label:        tokAt(toks, 8),
				LabelSend:    tokAt(toks, 9),
				LabelReceive: tokAt(toks, 10),
				Raw:          stmt.text,
			})

		case head == "#X" && sub == "array":
			cur, err := top(stack, stmt.line)
			if err != nil {
				return nil, err
			}
			cur.AddNode(ast.Node{
				Kind:       ast.KindArray,
				Name:       tokAt(toks, 2),
				ArraySize:  atoi(tokAt(toks, 3), 0),
				ArrayType:  tokAt(toks, 4),
				ArrayFlags: tokAt(toks, 5),
			})

		case head == "#X" && sub == "connect":
			cur, err := top(stack, stmt.line)
			if err != nil {
				return nil, err
			}
			cur.AddConnection(ast.Connection{
				FromNode:   atoi(tokAt(toks, 2), -1),
				FromOutlet: atoi(tokAt(toks, 3), 0),
				ToNode:     atoi(tokAt(toks, 4), -1),
				ToInlet:    atoi(tokAt(toks, 5), 0),
			})

		case head == "#A":
			cur, err := top(stack, stmt.line)
			if err != nil {
				return nil, err
			}
			attachArrayData(cur, stmt.text)

		default:
			logger.Warn("parser: ignoring unrecognized statement", logger.Fields{
				"line": stmt.line, "head": head, "sub": sub,
			})
		}
	}

	if root == nil {
		err := patcherr.Parse("no root canvas (#N canvas) found")
		logger.Error("parser: no root canvas", err, nil)
		return nil, err
	}
	if len(stack) > 1 {
		err := patcherr.Parse("unterminated subpatch at end of input (depth %d)", len(stack)).
			With("depth", len(stack))
		logger.Error("parser: unterminated subpatch", err, nil)
		return nil, err
	}

	return &ast.Patch{Root: root}, nil
}

func top(stack []*frame, line int) (*ast.Canvas, error) {
	if len(stack) == 0 {
		err := patcherr.Parse("statement outside any canvas").With("line", line)
		return nil, err
	}
	return stack[len(stack)-1].canvas, nil
}

func tokAt(toks []string, i int) string {
	if i < 0 || i >= len(toks) {
		return ""
	}
	return toks[i]
}

// restoreName extracts NAME from "#X restore x y pd NAME...". Anything
// after "pd" is re-joined with spaces to allow multi-word display names.
func restoreName(toks []string) string {
	for i, t := range toks {
		if t == "pd" && i+1 < len(toks) {
			return strings.Join(toks[i+1:], " ")
		}
	}
	return ""
}

// attachArrayData appends a #A continuation line's raw text to the most
// recently added array node's Raw field (spec §4.1 step 3, "#A...").
func attachArrayData(c *ast.Canvas, raw string) {
	for i := len(c.Nodes) - 1; i >= 0; i-- {
		if c.Nodes[i].Kind == ast.KindArray {
			n := c.Nodes[i]
			if n.Raw != "" {
				n.Raw += "\n"
			}
			n.Raw += raw
			c.Nodes[i] = n
			return
		}
	}
}

// ParseErrorAt is a convenience used by callers that want a formatted
// "line N: reason" string without reaching into Error.Context.
func ParseErrorAt(err error) string {
	var pe *patcherr.Error
	if e, ok := err.(*patcherr.Error); ok {
		pe = e
	}
	if pe == nil {
		return err.Error()
	}
	if line, ok := pe.Context["line"]; ok {
		return fmt.Sprintf("line %v: %s", line, pe.Message)
	}
	return pe.Message
}
