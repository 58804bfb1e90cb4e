package review

import (
	"bufio"
	"fmt"
	"io"

	"github.com/chonklab/antichonk/internal/session"
	"github.com/chonklab/antichonk/internal/tree"
	"github.com/chonklab/antichonk/internal/ui"
)

// helpMenu is the option menu printed for '?' and for unrecognized input.
const helpMenu = `
Choose from one of these options:
  d  delete the file
  D  delete the directory which contains the file
  s  skip this file and go on to the next one
  S  skip this directory and go on to the next one
  ?  print this help menu
  q  quit without reviewing the remaining files
`

const (
	ansiGreen = "\033[92m"
	ansiReset = "\033[0m"
)

// RunPlain drives the review loop over a line-based reader/writer pair.
// It is used when stdout is not a terminal, or when the operator asks for
// it. The protocol per candidate: print path, tree, size and age, prompt
// for one option, interpret the first rune of the reply. EOF ends the run
// like a quit.
func RunPlain(sess *session.Session, in io.Reader, out io.Writer, color bool) session.Summary {
	reader := bufio.NewReader(in)

	highlight := func(name string) string { return name }
	if color {
		highlight = func(name string) string { return ansiGreen + name + ansiReset }
	}

	for {
		rec, ok := sess.Next()
		if !ok {
			break
		}

		fmt.Fprintf(out, "\nAbsolute path: %s\n", rec.Path)
		fmt.Fprint(out, tree.Render(rec.Dir, rec.Path, tree.Options{
			Highlight: highlight,
			ShowSizes: true,
		}))
		fmt.Fprintf(out, "%s, modified %s\n\n", ui.FormatSize(rec.Size), ui.FormatAge(rec.ModTime))
		fmt.Fprint(out, "Please choose an option: d,D,s,S,? ")

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			break
		}

		switch decision := session.ParseDecision(line); decision {
		case session.Quit:
			return sess.Summary()
		case session.Help, session.Invalid:
			fmt.Fprint(out, helpMenu)
		default:
			if res := sess.Apply(rec, decision); res.Warning != "" {
				fmt.Fprintf(out, "warning: %s\n", res.Warning)
			}
		}
	}

	return sess.Summary()
}
