package main

import (
	"strconv"
	"strings"

	"github.com/pion/logging"
)

// verbosity counts repeated -v flags.
type verbosity int

func (v *verbosity) String() string {
	return strconv.Itoa(int(*v))
}

func (v *verbosity) Set(s string) error {
	if n, err := strconv.Atoi(s); err == nil {
		*v = verbosity(n)
		return nil
	}
	if b, err := strconv.ParseBool(s); err != nil {
		return err
	} else if b {
		*v++
	}
	return nil
}

func (v *verbosity) IsBoolFlag() bool {
	return true
}

func (v verbosity) level() logging.LogLevel {
	switch {
	case v <= 0:
		return logging.LogLevelWarn
	case v == 1:
		return logging.LogLevelInfo
	case v == 2:
		return logging.LogLevelDebug
	}
	return logging.LogLevelTrace
}

// parseInts reads a comma separated list such as "1,3".
func parseInts(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
