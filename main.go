package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/danswartzendruber/liner"
	"golang.org/x/term"
)

//
// CLI driver (spec.md §6).  Grounded in teacher's basic.go main(): a
// liner-backed interactive REPL when attached to a terminal, plus a
// file-driven batch path, both funneling into process_line/run.  We
// drop teacher's signal handler, profiling hooks, and history
// persistence (Non-goals: no persisted state) but keep its two-Liner
// split and terminal-geometry probe.
//

const banner = "Altair Ego: Emulating Altair BASIC 32K Rev. 3.2"

func main() {
	initRuntime()
	initClock()

	defer cleanupLiners()

	if len(os.Args) > 2 {
		fmt.Fprintln(os.Stderr, "usage: AltairEgo [program]")
		os.Exit(1)
	}

	if len(os.Args) == 2 {
		runFile(os.Args[1])
		return
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		runStdin()
		return
	}

	runInteractive()
}

func runFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()

	w := stdoutWriter{}
	in := &stdinReader{scanner: bufio.NewScanner(os.Stdin)}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		processLine(scanner.Text(), w, in)
	}

	run(w, in)
}

// runStdin handles a program piped on stdin with no file argument:
// batch semantics, sharing the stream between program text and INPUT.

func runStdin() {
	w := stdoutWriter{}
	scanner := bufio.NewScanner(os.Stdin)
	in := &stdinReader{scanner: scanner}

	for scanner.Scan() {
		processLine(scanner.Text(), w, in)
	}

	run(w, in)
}

func runInteractive() {
	setupWindow()
	setupLiners()

	w := stdoutWriter{}
	in := &linerReader{l: g.inputLiner}

	printWrite(w, banner)
	printNewline(w)
	printOK(w)

	for {
		text, err := g.parserLiner.Prompt("")
		if err != nil {
			if err == io.EOF {
				return
			}
			return
		}
		g.parserLiner.AppendHistory(text)
		processLine(text, w, in)
	}
}

func setupWindow() {
	rows, cols, err := term.GetSize(0)
	if err != nil {
		g.window = window{rows: minWindowRows, cols: 80}
		return
	}
	if rows < minWindowRows {
		rows = minWindowRows
	}
	g.window = window{rows: rows, cols: cols}
	g.numOutputZones = cols / zoneWidth
}

// Two Liner instances, one for program-line entry (with scrollback
// history) and one for INPUT statements (without) -- mirrors
// teacher's rationale for the split in utils.go.  They must close in
// reverse creation order to leave the terminal in cooked mode.

func setupLiners() {
	g.parserLiner = liner.NewLiner()
	g.inputLiner = liner.NewLiner()
}

func cleanupLiners() {
	if g.inputLiner != nil {
		g.inputLiner.Close()
		g.inputLiner = nil
	}
	if g.parserLiner != nil {
		g.parserLiner.Close()
		g.parserLiner = nil
	}
}

//
// I/O sink implementations
//

type stdoutWriter struct{}

func (stdoutWriter) write(s string) {
	fmt.Print(s)
}

type linerReader struct {
	l *liner.State
}

func (lr *linerReader) readLine() (string, error) {
	s, err := lr.l.Prompt("")
	if err != nil {
		return "", err
	}
	return s, nil
}

type stdinReader struct {
	scanner *bufio.Scanner
}

func (sr *stdinReader) readLine() (string, error) {
	if !sr.scanner.Scan() {
		if err := sr.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return sr.scanner.Text(), nil
}
