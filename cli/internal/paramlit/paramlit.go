// Package paramlit parses command-line parameter literals such as
// name=value, :name='a b', 2=42 or a bare value into statement
// parameters.
package paramlit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/satishbabariya/pdo-go/runtime/pdo"
)

// valueRules match a whole right-hand side: quoted text and numbers only
// when they run to the end of the input, anything else as a bare word.
var valueRules = []lexer.Rule{
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"$|'(?:''|[^'])*'$`},
	{Name: "Number", Pattern: `[-+]?[0-9]+(?:\.[0-9]+)?(?:[eE][-+]?[0-9]+)?$`},
	{Name: "Word", Pattern: `[^"'].*`},
}

// literalLexer switches to value rules once a key has been read, so the
// value side may contain '=' and ':' freely.
var literalLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Name", Pattern: `:?[A-Za-z_][A-Za-z0-9_]*=`, Action: lexer.Push("Value")},
		{Name: "Index", Pattern: `[0-9]+=`, Action: lexer.Push("Value")},
		lexer.Include("Value"),
	},
	"Value": valueRules,
})

var valueLexer = lexer.MustStateful(lexer.Rules{"Root": valueRules})

// Literal is one parsed parameter literal.
type Literal struct {
	Pos   lexer.Position
	Name  *string `parser:"(  @Name"`
	Index *string `parser:" | @Index )?"`
	Value *Value  `parser:"@@?"`
}

// Value is the right-hand side of a literal.
type Value struct {
	String *string `parser:"  @String"`
	Number *string `parser:"| @Number"`
	Word   *string `parser:"| @Word"`
}

var (
	parser      = participle.MustBuild[Literal](participle.Lexer(literalLexer))
	valueParser = participle.MustBuild[Value](participle.Lexer(valueLexer))
)

// ParseLiteral parses a single literal.
func ParseLiteral(s string) (*Literal, error) {
	lit, err := parser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("invalid parameter %q: %w", s, err)
	}
	return lit, nil
}

// ParseValue decodes a right-hand side on its own, as typed at a prompt.
// Unlike ParseLiteral, "a=b" is the string "a=b".
func ParseValue(s string) (any, error) {
	if s == "" {
		return "", nil
	}
	v, err := valueParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return v.decode()
}

// Key returns the parameter name without its colon, or "" for positional literals.
func (l *Literal) Key() string {
	if l.Name == nil {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(*l.Name, ":"), "=")
}

// Position returns the explicit 1-based position, or 0 when none was given.
func (l *Literal) Position() int {
	if l.Index == nil {
		return 0
	}
	n, _ := strconv.Atoi(strings.TrimSuffix(*l.Index, "="))
	return n
}

// Decode returns the Go value of the literal. Quoted text is a string,
// numbers are int64 or float64, true/false are bools, null is nil and any
// other bare word is a string. An empty right-hand side is "".
func (l *Literal) Decode() (any, error) {
	if l.Value == nil {
		return "", nil
	}
	return l.Value.decode()
}

func (v *Value) decode() (any, error) {
	switch {
	case v.String != nil:
		return unquote(*v.String)
	case v.Number != nil:
		if n, err := strconv.ParseInt(*v.Number, 10, 64); err == nil {
			return n, nil
		}
		return strconv.ParseFloat(*v.Number, 64)
	default:
		switch strings.ToLower(*v.Word) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "null":
			return nil, nil
		}
		return *v.Word, nil
	}
}

func unquote(s string) (string, error) {
	if s[0] == '\'' {
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'"), nil
	}
	return strconv.Unquote(s)
}

// Parse turns literals into statement parameters. All literals must be named
// (pdo.Named) or all positional (pdo.List). Positional literals without an
// index take the next free position; the positions used must run 1..n.
func Parse(literals []string) (pdo.Params, error) {
	if len(literals) == 0 {
		return nil, nil
	}

	named := pdo.Named{}
	positional := map[int]any{}
	next := 1

	for _, s := range literals {
		lit, err := ParseLiteral(s)
		if err != nil {
			return nil, err
		}
		val, err := lit.Decode()
		if err != nil {
			return nil, fmt.Errorf("invalid parameter %q: %w", s, err)
		}

		if key := lit.Key(); key != "" {
			if _, dup := named[key]; dup {
				return nil, fmt.Errorf("parameter :%s given twice", key)
			}
			named[key] = val
			continue
		}

		pos := lit.Position()
		if pos == 0 {
			for {
				if _, used := positional[next]; !used {
					break
				}
				next++
			}
			pos = next
		}
		if _, dup := positional[pos]; dup {
			return nil, fmt.Errorf("parameter position %d given twice", pos)
		}
		positional[pos] = val
	}

	if len(named) > 0 && len(positional) > 0 {
		return nil, fmt.Errorf("cannot mix named and positional parameters")
	}
	if len(named) > 0 {
		return named, nil
	}

	positions := make([]int, 0, len(positional))
	for p := range positional {
		positions = append(positions, p)
	}
	sort.Ints(positions)

	list := make(pdo.List, len(positions))
	for i, p := range positions {
		if p != i+1 {
			return nil, fmt.Errorf("parameter position %d is missing", i+1)
		}
		list[i] = positional[p]
	}
	return list, nil
}
