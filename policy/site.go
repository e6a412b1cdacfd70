package policy

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Category is the kind of guarded use.
type Category int

const (
	CategoryExit Category = iota
	CategoryHalt
	CategoryConsole
	CategoryStackTrace
)

func (c Category) String() string {
	switch c {
	case CategoryExit:
		return "exit"
	case CategoryHalt:
		return "halt"
	case CategoryConsole:
		return "console"
	case CategoryStackTrace:
		return "stacktrace"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Site describes one guarded use.
type Site struct {
	Category Category
	// Target names what is used, e.g. "os.Exit".
	Target string
	// Location is "file.go:line" of the use.
	Location string
	// Function is the fully qualified enclosing function.
	Function string
	// Type is the fully qualified enclosing type, if any.
	Type string
	// Override exempts this site regardless of registered overrides.
	Override bool
}

// String renders the audit line.
func (s Site) String() string {
	loc := s.Location
	if loc == "" {
		loc = "unknown"
	}
	return s.Target + " used at " + loc
}

// Caller describes the use made by the caller skip frames above Caller
// itself: skip 0 is the function calling Caller.
func Caller(category Category, target string, skip int) Site {
	site := Site{Category: category, Target: target}
	pcs := make([]uintptr, 1)
	if runtime.Callers(skip+2, pcs) == 0 {
		return site
	}
	frame, _ := runtime.CallersFrames(pcs).Next()
	if frame.File != "" {
		site.Location = fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
	}
	if frame.Function != "" {
		site.Function = enclosingFunction(frame.Function)
		site.Type = receiverType(site.Function)
	}
	return site
}

// enclosingFunction strips closure suffixes: "pkg.Run.func1.2" -> "pkg.Run".
func enclosingFunction(name string) string {
	prefix, last := splitPackage(name)
	parts := strings.Split(last, ".")
	for len(parts) > 1 && isClosure(parts[len(parts)-1]) {
		parts = parts[:len(parts)-1]
	}
	return prefix + strings.Join(parts, ".")
}

// receiverType returns "path/pkg.T" for "path/pkg.(*T).M" or "path/pkg.T.M",
// and "" for plain functions.
func receiverType(function string) string {
	prefix, last := splitPackage(strings.ReplaceAll(function, "[...]", ""))
	parts := strings.Split(last, ".")
	if len(parts) < 3 {
		return ""
	}
	recv := strings.TrimSuffix(strings.TrimPrefix(parts[1], "(*"), ")")
	return prefix + parts[0] + "." + recv
}

// splitPackage splits "github.com/x/pkg.F" into "github.com/x/" and "pkg.F".
func splitPackage(name string) (string, string) {
	i := strings.LastIndexByte(name, '/')
	return name[:i+1], name[i+1:]
}

func isClosure(part string) bool {
	if strings.HasPrefix(part, "func") {
		part = part[len("func"):]
	}
	if part == "" {
		return false
	}
	for _, r := range part {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// shortName drops the import path: "github.com/x/pkg.T" -> "pkg.T".
func shortName(name string) string {
	_, last := splitPackage(name)
	return last
}
