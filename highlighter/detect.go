package highlighter

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/go-enry/go-enry/v2"
)

var interpreters = map[string]string{
	"sh":      "bash",
	"zsh":     "bash",
	"node":    "javascript",
	"deno":    "typescript",
	"python3": "python",
	"python2": "python",
	"ruby":    "ruby",
	"perl":    "perl",
	"lua":     "lua",
}

// Detect returns the chroma name of the language of a file, or "" when it
// is binary or unrecognised. Detection tries go-enry, then chroma's filename
// patterns, then the shebang line, then chroma's content analysers.
func Detect(filename string, content []byte) string {
	if len(content) > 0 && enry.IsBinary(content) {
		return ""
	}

	base := filepath.Base(filename)
	if filename != "" {
		if lang := enry.GetLanguage(base, content); lang != "" {
			if l := lexers.Get(lang); l != nil {
				return name(l)
			}
		}
		if l := lexers.Match(base); l != nil {
			return name(l)
		}
	}

	if lang := shebang(content); lang != "" {
		if l := lexers.Get(lang); l != nil {
			return name(l)
		}
	}

	if len(content) > 0 {
		if l := lexers.Analyse(string(content)); l != nil {
			return name(l)
		}
	}
	return ""
}

func name(l chroma.Lexer) string {
	return l.Config().Name
}

// shebang returns the interpreter named on a "#!" first line.
func shebang(content []byte) string {
	if !bytes.HasPrefix(content, []byte("#!")) {
		return ""
	}
	line, _, _ := bytes.Cut(content[2:], []byte("\n"))
	fields := strings.Fields(string(line))
	if len(fields) == 0 {
		return ""
	}

	interp := filepath.Base(fields[0])
	if interp == "env" {
		if len(fields) < 2 {
			return ""
		}
		interp = fields[1]
	}
	if mapped, ok := interpreters[interp]; ok {
		return mapped
	}
	return interp
}
