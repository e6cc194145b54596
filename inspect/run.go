// Package inspect reports what previously extracted styles contain.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"atomcss/css"
	"atomcss/sheet"
	"atomcss/state"
	"atomcss/utils/debug"
)

// Run is action of the inspect command.
func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Logger("inspect")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no extracted styles have been specified")
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("unable to read extracted styles: %w", err)
	}

	var out io.Writer = os.Stdout
	if w := cmd.Root().Writer; w != nil {
		out = w
	}
	return Dump(out, data, cmd.Bool("pretty"), css.NewParser(log))
}

// Dump parses every sheet of extracted styles and writes either summary tree
// or pretty printed styles.
func Dump(w io.Writer, data []byte, pretty bool, p *css.Parser) error {
	parts := sheet.Split(data)

	if pretty {
		for _, part := range parts {
			ss := p.Parse([]byte(part.Text), sheet.Marker(part.Screen))
			if _, err := fmt.Fprintf(w, "%s\n%s\n", sheet.Marker(part.Screen), ss.String()); err != nil {
				return err
			}
		}
		return nil
	}

	var total int
	tw := debug.NewTreeWriter()
	for _, part := range parts {
		ss := p.Parse([]byte(part.Text), sheet.Marker(part.Screen))
		total += ss.RuleCount()
		tw.Stylesheet(1, part.Screen, ss)
	}
	if _, err := fmt.Fprintf(w, "Extraction sheets=%d next=%d\n", len(parts), total); err != nil {
		return err
	}
	_, err := io.WriteString(w, tw.String())
	return err
}
