package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity. Each level admits every scope up to
// and including its widest scope.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // reserved for crash dumps; admits no scope
	LevelPhase               // commands and passes
	LevelDetail              // plus per-file work
	LevelDebug               // plus every query execution
)

var levels = [...]struct {
	name   string
	widest Scope // 0 admits nothing
}{
	LevelOff:    {"off", 0},
	LevelError:  {"error", 0},
	LevelPhase:  {"phase", ScopePass},
	LevelDetail: {"detail", ScopeFile},
	LevelDebug:  {"debug", ScopeNode},
}

func (l Level) String() string {
	if int(l) < len(levels) {
		return levels[l].name
	}
	return "unknown"
}

// ParseLevel maps a flag or config value onto a Level; "" means off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for l, info := range levels {
		if info.name == s {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
}

// ShouldEmit reports whether events of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levels) {
		return false
	}
	return scope != 0 && scope <= levels[l].widest
}
