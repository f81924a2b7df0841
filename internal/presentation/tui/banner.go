package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Wayfinder banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{` __        __          __ _           _`, "#34d399"},
		{` \ \      / /_ _ _   _/ _(_)_ __   __| | ___ _ __`, "#2dd4bf"},
		{`  \ \ /\ / / _' | | | | |_| | '_ \ / _' |/ _ \ '__|`, "#22d3ee"},
		{`   \ V  V / (_| | |_| |  _| | | | | (_| |  __/ |`, "#38bdf8"},
		{`    \_/\_/ \__,_|\__, |_| |_|_| |_|\__,_|\___|_|`, "#60a5fa"},
		{`                 |___/`, "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  "+version).Faint())
	fmt.Fprintln(w)
}
