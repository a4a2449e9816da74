package transpile

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/wfscript/internal/naming"
)

// ArgsFormat selects how call arguments are written.
type ArgsFormat string

const (
	// ArgsPositional writes every argument positionally, unset ones as None.
	ArgsPositional ArgsFormat = "pos"
	// ArgsKeyword writes every argument as name=value and leaves unset
	// ones out.
	ArgsKeyword ArgsFormat = "kwd"
	// ArgsPos2OrKeyword writes calls of at most two arguments positionally
	// and longer ones with keywords.
	ArgsPos2OrKeyword ArgsFormat = "pos2kwd"
)

// ArgsFormats lists the accepted formats.
var ArgsFormats = []ArgsFormat{ArgsPositional, ArgsKeyword, ArgsPos2OrKeyword}

// ParseArgsFormat parses a format name, case-insensitively.
func ParseArgsFormat(s string) (ArgsFormat, error) {
	for _, f := range ArgsFormats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown argument format %q (want one of pos, kwd, pos2kwd)", s)
}

// DefaultRuntimeModule is imported by the runtime header unless configured
// otherwise.
const DefaultRuntimeModule = "comfy_script.runtime"

func runtimeHeader(module string) string {
	return "from " + module + " import *\n" +
		"load()\n" +
		"from " + module + ".nodes import *\n" +
		"\n" +
		"with Workflow():\n"
}

// render writes the argument list. Calls with an unnamed input are always
// positional since there is no keyword to write.
func (f ArgsFormat) render(args []Arg, positionalOnly bool) string {
	for _, a := range args {
		if a.Name == "" {
			positionalOnly = true
		}
	}

	switch {
	case positionalOnly || f == ArgsPositional:
		return positional(args)
	case f == ArgsPos2OrKeyword:
		if set := trimUnset(args); len(set) <= 2 {
			return positional(set)
		}
	}
	return keyword(args)
}

func positional(args []Arg) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Expr
	}
	return strings.Join(parts, ", ")
}

func keyword(args []Arg) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		if a.Kind == BindNone {
			continue
		}
		parts = append(parts, naming.RawID(a.Name)+"="+a.Expr)
	}
	return strings.Join(parts, ", ")
}

// trimUnset drops the unset arguments at the end of args.
func trimUnset(args []Arg) []Arg {
	end := len(args)
	for end > 0 && args[end-1].Kind == BindNone {
		end--
	}
	return args[:end]
}
