package asm

import (
	"regexp"
	"strings"
)

// commentMarkers are the three comment styles spec.md §4.1 allows, each
// extending to end of line.
var commentMarkers = []string{";", "#", "//"}

var labelIdentRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// rawLine is one physical source line after comment-stripping and
// whitespace/comma normalization, split into its constituent parts. A
// single line may carry both a label and an instruction, per spec.md §4.1
// ("Labels ... optionally followed by an instruction on the same line").
type rawLine struct {
	LineNo int
	Label  string // empty if this line defines no label

	IsConst   bool
	ConstName string
	ConstExpr string

	Mnemonic string
	Args     []string // at most 2, validated by the assembler
}

// stripComment truncates line at the first occurrence of any comment
// marker (;, #, or //).
func stripComment(line string) string {
	cut := len(line)
	for _, marker := range commentMarkers {
		if idx := strings.Index(line, marker); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return line[:cut]
}

// lexLine parses one source line. Returns (nil, nil) for blank/comment-only
// lines.
func lexLine(lineNo int, text string) (*rawLine, error) {
	text = strings.TrimSpace(stripComment(text))
	if text == "" {
		return nil, nil
	}

	rl := &rawLine{LineNo: lineNo}

	if idx := strings.Index(text, ":"); idx >= 0 {
		candidate := strings.TrimSpace(text[:idx])
		if labelIdentRe.MatchString(candidate) {
			rl.Label = candidate
			text = strings.TrimSpace(text[idx+1:])
		}
	}

	if text == "" {
		return rl, nil
	}

	fields := strings.Fields(text)
	if strings.EqualFold(fields[0], ".const") {
		if len(fields) < 3 {
			return nil, errf(lineNo, ".const requires a name and an expression")
		}
		rl.IsConst = true
		rl.ConstName = fields[1]
		rl.ConstExpr = strings.Join(fields[2:], " ")
		return rl, nil
	}

	// Commas are optional separators with no semantic weight.
	normalized := strings.ReplaceAll(text, ",", " ")
	fields = strings.Fields(normalized)
	rl.Mnemonic = fields[0]
	if len(fields) > 1 {
		rl.Args = fields[1:]
	}
	return rl, nil
}

// lexSource splits source into non-blank rawLines, in order.
func lexSource(source string) ([]*rawLine, error) {
	lines := strings.Split(source, "\n")
	var out []*rawLine
	for i, text := range lines {
		rl, err := lexLine(i+1, text)
		if err != nil {
			return nil, err
		}
		if rl != nil {
			out = append(out, rl)
		}
	}
	return out, nil
}
