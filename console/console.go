// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/danielhkuo/ballot-station/ballot"
)

// QuitCommand ends the loop when entered at the name prompt.
const QuitCommand = ":q"

// Register is the part of *ballot.Register the console uses.
type Register interface {
	Candidates() []string
	CastVote(ctx context.Context, sub ballot.Submission) (ballot.Decision, error)
	Results() ballot.Tally
}

var _ Register = (*ballot.Register)(nil)

// Station runs the voting form over a line-based terminal.
type Station struct {
	reg         Register
	in          *bufio.Scanner
	out         io.Writer
	interactive bool
	title       string
}

// New builds a station reading from in and writing to out. Prompts are
// printed only when in is a terminal.
func New(reg Register, in io.Reader, out io.Writer) *Station {
	return &Station{
		reg:         reg,
		in:          bufio.NewScanner(in),
		out:         out,
		interactive: IsTerminal(in),
		title:       "The Ultimate Voting System",
	}
}

// IsTerminal reports whether r is an interactive terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run loops over voters until the input ends, QuitCommand is entered or
// ctx is cancelled. It returns the number of accepted votes. A cancelled
// ctx ends the loop even while a prompt is waiting for input.
func (s *Station) Run(ctx context.Context) (int, error) {
	candidates := s.reg.Candidates()

	fmt.Fprintln(s.out, s.title)
	for i, c := range candidates {
		fmt.Fprintf(s.out, "  %d) %s\n", i+1, c)
	}
	if s.interactive {
		fmt.Fprintf(s.out, "Enter %s at the name prompt to close the station.\n", QuitCommand)
	}

	done := make(chan struct{})
	defer close(done)
	lines := s.readLines(done)

	accepted := 0
	for {
		if err := ctx.Err(); err != nil {
			return accepted, err
		}

		name, ok := s.prompt(ctx, lines, "Name")
		if !ok {
			return accepted, s.stopErr(ctx)
		}
		if strings.TrimSpace(name) == QuitCommand {
			return accepted, nil
		}
		ref, ok := s.prompt(ctx, lines, "Reference ID")
		if !ok {
			return accepted, s.stopErr(ctx)
		}
		choice, ok := s.prompt(ctx, lines, "Candidate")
		if !ok {
			return accepted, s.stopErr(ctx)
		}
		if err := ctx.Err(); err != nil {
			return accepted, err
		}

		d, err := s.reg.CastVote(ctx, ballot.Submission{
			Candidate:   resolveCandidate(candidates, choice),
			Name:        name,
			ReferenceID: ref,
		})
		if err != nil {
			slog.Error("vote not recorded", "error", err)
		}
		if d.Outcome == ballot.Accepted {
			accepted++
		}

		fmt.Fprintln(s.out, d.Message())
		if d.Outcome == ballot.Accepted {
			fmt.Fprintf(s.out, "Receipt: %s\n", d.ReceiptID)
		}
		PrintTally(s.out, s.reg.Results())
	}
}

// readLines scans the input on its own goroutine so a prompt can give up
// when ctx is cancelled. The channel is closed at end of input.
func (s *Station) readLines(done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		for s.in.Scan() {
			select {
			case lines <- s.in.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

func (s *Station) prompt(ctx context.Context, lines <-chan string, label string) (string, bool) {
	if s.interactive {
		fmt.Fprintf(s.out, "%s: ", label)
	}
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-lines:
		return line, ok
	}
}

// stopErr explains why a prompt returned no line. The scanner error is only
// read once the reader goroutine has closed the channel.
func (s *Station) stopErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.in.Err()
}

// resolveCandidate maps a 1-based number to its label. Anything else is
// passed through so the register can reject it.
func resolveCandidate(candidates []string, choice string) string {
	trimmed := strings.TrimSpace(choice)
	if n, err := strconv.Atoi(trimmed); err == nil && n >= 1 && n <= len(candidates) {
		return candidates[n-1]
	}
	return trimmed
}

// PrintTally writes the tally followed by the total.
func PrintTally(w io.Writer, t ballot.Tally) {
	fmt.Fprintln(w, "Results:")
	for _, c := range t {
		fmt.Fprintf(w, "  %s: %s\n", c.Candidate, humanize.Comma(int64(c.Votes)))
	}
	fmt.Fprintf(w, "Total votes: %s\n", humanize.Comma(int64(t.Total())))
}
