package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const barWidth = 40

// progressBar redraws a single status line whenever the percentage changes.
type progressBar struct {
	w    io.Writer
	last int
}

// newProgressBar returns nil when stderr is not a terminal.
func newProgressBar() *progressBar {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}
	return &progressBar{w: os.Stderr, last: -1}
}

func (p *progressBar) update(done, total int64) {
	if total <= 0 {
		return
	}
	pct := int(done * 100 / total)
	if pct == p.last {
		return
	}
	p.last = pct
	fill := pct * barWidth / 100
	fmt.Fprintf(p.w, "\r[%s%s] %3d%% %d/%d frames", strings.Repeat("#", fill), strings.Repeat(" ", barWidth-fill), pct, done, total)
	if done >= total {
		fmt.Fprintln(p.w)
	}
}
