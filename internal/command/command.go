// Package command implements the ex-style command parser: colon-prefixed
// commands such as ":write", ":color-rows red", ":rename-sheet 2 Totals".
package command

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the parsed command's shape.
type Kind int

const (
	Write Kind = iota
	InsertRows
	InsertCols
	Edit
	Help
	Quit
	NewSheet
	SelectSheet
	RenameSheet
	ColorRows
	ColorColumns
	ColorCell
	Export
)

// Command is the tagged variant returned by Parse. Only the fields
// relevant to Kind are populated; the zero value of the rest is unused.
type Command struct {
	Kind Kind

	// Path carries write's optional path, edit's and export's required
	// path.
	Path string
	// HasPath distinguishes "no path given" from an empty string for
	// Write, since Write's path is optional.
	HasPath bool

	// Count carries insert-rows/insert-cols' (defaulted to 1) and
	// color-rows/color-columns' (optional, caller decides the default)
	// row/column counts.
	Count int
	// HasCount is true when color-rows/color-columns were given an
	// explicit count.
	HasCount bool

	// Name carries new-sheet's optional name, select-sheet's and
	// rename-sheet's required name.
	Name string
	HasName bool

	// Index carries rename-sheet's optional sheet index.
	Index    int
	HasIndex bool

	// Color is the resolved "#rrggbb" literal for color-rows,
	// color-columns, and color-cell.
	Color string

	// Topic carries help's optional topic.
	Topic    string
	HasTopic bool
}

type verbSpec struct {
	long, short string
}

var verbTable = map[Kind]verbSpec{
	Write:        {"write", "w"},
	InsertRows:   {"insert-rows", "ir"},
	InsertCols:   {"insert-cols", "ic"},
	Edit:         {"edit", "e"},
	Help:         {"help", "?"},
	Quit:         {"quit", "q"},
	NewSheet:     {"new-sheet", ""},
	SelectSheet:  {"select-sheet", ""},
	RenameSheet:  {"rename-sheet", ""},
	ColorRows:    {"color-rows", ""},
	ColorColumns: {"color-columns", ""},
	ColorCell:    {"color-cell", "cc"},
	Export:       {"export", "ex"},
}

// parseOrder fixes the order verbs are tried in, longest/most-specific
// prefixes first so e.g. "export" is never swallowed by a shorter match.
var parseOrder = []Kind{
	Write, NewSheet, SelectSheet, InsertRows, InsertCols, Export, Edit, Help,
	Quit, RenameSheet, ColorRows, ColorColumns, ColorCell,
}

// matchVerb strips the long or short spelling of a verb from the front of
// input, preferring the long form. It returns the unconsumed remainder and
// whether a verb matched at all.
func matchVerb(input string, spec verbSpec) (rest string, matched bool) {
	if strings.HasPrefix(input, spec.long) {
		return input[len(spec.long):], true
	}
	if spec.short != "" && strings.HasPrefix(input, spec.short) {
		return input[len(spec.short):], true
	}
	return input, false
}

// consumeArg requires a single leading whitespace rune before the argument
// when anything follows the verb, then trims the rest. An empty remainder
// is a valid "no argument" case.
func consumeArg(rest string, verbForHint string) (arg string, err error) {
	if rest == "" {
		return "", nil
	}
	if !isSpace(rest[0]) {
		return "", fmt.Errorf("Invalid command: did you mean to type `%s <arg>`?", verbForHint)
	}
	return strings.TrimSpace(rest), nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// consumeLeadingUint parses a run of leading decimal digits off arg,
// returning the parsed value, whether any digits were found, and the
// trimmed remainder.
func consumeLeadingUint(arg string) (value int, found bool, rest string) {
	i := 0
	for i < len(arg) && arg[i] >= '0' && arg[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false, arg
	}
	n, err := strconv.Atoi(arg[:i])
	if err != nil {
		return 0, false, arg
	}
	return n, true, strings.TrimSpace(arg[i:])
}

// Parse tokenizes and recognizes one ex-style command. It returns
// (nil, nil) for an unrecognized verb (the caller reports "Unrecognized
// command"), (cmd, nil) on success, and (nil, err) on a malformed
// recognized command. Parse never panics and never touches the workbook.
func Parse(input string) (*Command, error) {
	trimmed := strings.TrimLeft(input, " \t")
	for _, kind := range parseOrder {
		spec := verbTable[kind]
		rest, matched := matchVerb(trimmed, spec)
		if !matched {
			continue
		}
		return parseByKind(kind, spec, rest)
	}
	return nil, nil
}

func parseByKind(kind Kind, spec verbSpec, rest string) (*Command, error) {
	switch kind {
	case Write:
		arg, err := consumeArg(rest, "write")
		if err != nil {
			return nil, err
		}
		return &Command{Kind: Write, Path: arg, HasPath: arg != ""}, nil

	case Export:
		arg, err := consumeArg(rest, "export")
		if err != nil {
			return nil, err
		}
		if arg == "" {
			return nil, fmt.Errorf("Invalid command: did you mean to type `export <path>`?")
		}
		return &Command{Kind: Export, Path: arg, HasPath: true}, nil

	case Edit:
		arg, err := consumeArg(rest, "edit")
		if err != nil {
			return nil, err
		}
		if arg == "" {
			return nil, fmt.Errorf("You must pass in a path to edit")
		}
		return &Command{Kind: Edit, Path: arg, HasPath: true}, nil

	case Help:
		arg, err := consumeArg(rest, "help")
		if err != nil {
			return nil, err
		}
		return &Command{Kind: Help, Topic: arg, HasTopic: arg != ""}, nil

	case Quit:
		if rest != "" {
			return nil, fmt.Errorf("Invalid command: quit does not take an argument")
		}
		return &Command{Kind: Quit}, nil

	case NewSheet:
		arg, err := consumeArg(rest, "new-sheet <arg>")
		if err != nil {
			return nil, err
		}
		return &Command{Kind: NewSheet, Name: arg, HasName: arg != ""}, nil

	case SelectSheet:
		arg, err := consumeArg(rest, "select-sheet <sheet-name>")
		if err != nil {
			return nil, err
		}
		if arg == "" {
			return nil, fmt.Errorf("Invalid command: did you forget the sheet name? `select-sheet <sheet-name>`")
		}
		return &Command{Kind: SelectSheet, Name: arg, HasName: true}, nil

	case RenameSheet:
		arg, err := consumeArg(rest, "rename-sheet [idx] <new-name>")
		if err != nil {
			return nil, err
		}
		idx, hasIdx, name := consumeLeadingUint(arg)
		if name == "" {
			return nil, fmt.Errorf("Invalid command: `rename-sheet` requires a sheet name argument")
		}
		return &Command{Kind: RenameSheet, Index: idx, HasIndex: hasIdx, Name: name, HasName: true}, nil

	case ColorRows:
		arg, err := consumeArg(rest, "color-rows [count] <color>")
		if err != nil {
			return nil, err
		}
		count, hasCount, colorArg := consumeLeadingUint(arg)
		color, err := ParseColor(colorArg)
		if err != nil {
			return nil, fmt.Errorf("Invalid command: `color-rows` requires a color argument")
		}
		return &Command{Kind: ColorRows, Count: count, HasCount: hasCount, Color: color}, nil

	case ColorColumns:
		arg, err := consumeArg(rest, "color-columns [count] <color>")
		if err != nil {
			return nil, err
		}
		count, hasCount, colorArg := consumeLeadingUint(arg)
		color, err := ParseColor(colorArg)
		if err != nil {
			return nil, fmt.Errorf("Invalid command: `color-columns` requires a color argument")
		}
		return &Command{Kind: ColorColumns, Count: count, HasCount: hasCount, Color: color}, nil

	case ColorCell:
		arg, err := consumeArg(rest, "color-cell <color>")
		if err != nil {
			return nil, err
		}
		color, err := ParseColor(arg)
		if err != nil {
			return nil, fmt.Errorf("Invalid command: did you mean to type `color-cell <color>`?")
		}
		return &Command{Kind: ColorCell, Color: color}, nil

	case InsertRows:
		arg, err := consumeArg(rest, "insert-rows <arg>")
		if err != nil {
			return nil, err
		}
		if arg == "" {
			return &Command{Kind: InsertRows, Count: 1}, nil
		}
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("You must pass in a non negative number for the row count")
		}
		return &Command{Kind: InsertRows, Count: n}, nil

	case InsertCols:
		arg, err := consumeArg(rest, "insert-cols <arg>")
		if err != nil {
			return nil, err
		}
		if arg == "" {
			return &Command{Kind: InsertCols, Count: 1}, nil
		}
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("You must pass in a non negative number for the column count")
		}
		return &Command{Kind: InsertCols, Count: n}, nil
	}
	return nil, nil
}

// verbNames lists every recognized long-form verb, used by SuggestVerb to
// offer a near-miss hint for a typo'd command.
var verbNames = func() []string {
	names := make([]string, 0, len(verbTable))
	for _, spec := range verbTable {
		names = append(names, spec.long)
	}
	return names
}()

// SuggestVerb returns a single close verb for a typo'd command word, or
// "" when nothing is close enough to be worth suggesting. "Close" means
// an edit distance of at most 2 and shorter than the candidate itself.
func SuggestVerb(word string) string {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return ""
	}
	best := ""
	bestDist := 3
	for _, name := range verbNames {
		d := levenshtein(word, name)
		if d < bestDist {
			bestDist = d
			best = name
		}
	}
	return best
}

func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}
