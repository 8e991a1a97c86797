package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"gwbasic"
)

// console is the interactive front end: it owns the program, its
// variables and string space, and the one Run that executes them.
type console struct {
	cfg   gwbasic.Config
	log   *logs
	prog  *gwbasic.Program
	vars  *gwbasic.Symtab
	heap  *gwbasic.StringSpace
	run   *gwbasic.Run
	out   *bufio.Writer
	stats stats

	interrupted atomic.Bool
	printStats  bool
	tracing     bool
	exiting     bool
}

func newConsole(cfg gwbasic.Config, l *logs, w io.Writer) *console {

	c := &console{
		cfg:        cfg,
		log:        l,
		prog:       gwbasic.NewProgram(),
		vars:       gwbasic.NewSymtab(),
		heap:       gwbasic.NewStringSpace(),
		out:        bufio.NewWriter(w),
		printStats: cfg.PrintStats,
		tracing:    cfg.TraceExec,
	}

	c.run = gwbasic.NewRun(c.prog, c.vars, c.heap, gwbasic.Options{
		Config:     cfg,
		Sink:       c,
		Files:      c,
		Logger:     l.Logger,
		Checkpoint: c.checkpoint,
	})

	l.setTracing(c.tracing)

	return c
}

//
// MessageSink: float warnings and PRINT output both end up here
//

func (c *console) WriteLine(s string) {

	fmt.Fprintln(c.out, s)
	c.out.Flush()
}

//
// The console opens no files of its own for BASIC, so all END has to
// close is the pending output
//

func (c *console) CloseAll() error {

	return c.out.Flush()
}

func (c *console) checkpoint() error {

	if c.interrupted.Swap(false) {
		return &gwbasic.Break{}
	}

	return nil
}

func (c *console) printVersionInfo() {

	fmt.Fprintf(c.out, "GW-BASIC core %s\n", gwbasic.VERSION)
	c.out.Flush()
}

func (c *console) loop(rd lineReader) {

	c.ok()

	for !c.exiting {
		line, err := rd.readLine("")

		if errors.Is(err, io.EOF) {
			return
		}

		if err != nil {
			c.log.Error("read line", "error", err)
			return
		}

		c.call(func() { c.execute(line) })
	}
}

func (c *console) ok() {

	fmt.Fprintln(c.out, "Ok")
	c.out.Flush()
}

//
// One line of console input: a console command, a numbered program
// line, or a direct-mode statement list
//

func (c *console) execute(line string) {

	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	word, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToUpper(word) {
	default:
		if c.executeLine(line) {
			c.ok()
		}
		return

	case "BYE", "SYSTEM":
		c.exiting = true
		return

	case "HELP":
		c.executeHelp(strings.ToUpper(arg))

	case "LIST":
		c.executeList(arg)

	case "LOAD":
		c.executeLoad(arg)

	case "NEW":
		c.prog.New()
		c.run.Reset()

	case "RUN":
		c.executeRun(arg)

	case "SAVE":
		c.executeSave(arg)

	case "STATS":
		c.printStats = !c.printStats
		fmt.Fprintf(c.out, "stats %s\n", onOff(c.printStats))

	case "TRACE":
		c.executeTrace(strings.ToUpper(arg))
	}

	c.ok()
}

// executeLine reports whether line was a direct statement, which gets
// an Ok afterwards.
func (c *console) executeLine(line string) bool {

	lineNo, toks, err := gwbasic.Tokenize(line)
	if err != nil {
		c.report(err)
		return true
	}

	//
	// A numbered line edits the program.  Saved positions no longer
	// mean anything, so CONT goes away along with the variables
	//

	if lineNo >= 0 {
		c.prog.AddLine(lineNo, line, toks)
		c.prog.Link()
		c.run.Reset()
		return false
	}

	c.report(c.run.RunFrom(c.prog.SetDirect(toks)))
	c.printStatistics()

	return true
}

func (c *console) executeRun(arg string) {

	line := -1

	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			c.report(&gwbasic.RunError{Code: gwbasic.ErrorCodeOf(gwbasic.ESYNTAX), Line: -1})
			return
		}
		line = n
	}

	if !c.prog.Linked() {
		c.prog.Link()
	}

	c.resetStatistics()
	c.interrupted.Store(false)
	c.report(c.run.RunProgram(line))
	c.printStatistics()
}

//
// LIST        the whole program
// LIST n      one line
// LIST n-m    a range; either end may be left off
//

func (c *console) executeList(arg string) {

	lo, hi, err := parseRange(arg)
	if err != nil {
		c.report(&gwbasic.RunError{Code: gwbasic.ErrorCodeOf(gwbasic.ESYNTAX), Line: -1})
		return
	}

	c.prog.List(func(lineNo int, text string) {
		if lineNo >= lo && lineNo <= hi {
			fmt.Fprintln(c.out, text)
		}
	})

	c.out.Flush()
}

func parseRange(arg string) (int, int, error) {

	if arg == "" {
		return 0, 65535, nil
	}

	from, to, isRange := strings.Cut(arg, "-")

	lo, hi := 0, 65535

	if from = strings.TrimSpace(from); from != "" {
		n, err := strconv.Atoi(from)
		if err != nil {
			return 0, 0, err
		}
		lo = n
	}

	if !isRange {
		return lo, lo, nil
	}

	if to = strings.TrimSpace(to); to != "" {
		n, err := strconv.Atoi(to)
		if err != nil {
			return 0, 0, err
		}
		hi = n
	}

	if lo > hi {
		return 0, 0, fmt.Errorf("empty range %d-%d", lo, hi)
	}

	return lo, hi, nil
}

func (c *console) executeLoad(fname string) {

	if fname == "" {
		fmt.Fprintln(c.out, "Missing filename")
		return
	}

	f, err := os.Open(fname)
	if err != nil {
		fmt.Fprintln(c.out, err)
		return
	}
	defer f.Close()

	c.prog.New()
	c.run.Reset()

	sc := bufio.NewScanner(f)

	for sc.Scan() {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		if err := c.prog.AddSource(text); err != nil {
			c.report(err)
		}
	}

	if err := sc.Err(); err != nil {
		fmt.Fprintln(c.out, err)
	}

	c.prog.Link()
	c.log.Debug("loaded", "file", fname)
}

func (c *console) executeSave(fname string) {

	if fname == "" {
		fmt.Fprintln(c.out, "Missing filename")
		return
	}

	f, err := os.Create(fname)
	if err != nil {
		fmt.Fprintln(c.out, err)
		return
	}

	w := bufio.NewWriter(f)

	c.prog.List(func(_ int, text string) {
		fmt.Fprintln(w, text)
	})

	if err := w.Flush(); err != nil {
		fmt.Fprintln(c.out, err)
	}

	if err := f.Close(); err != nil {
		fmt.Fprintln(c.out, err)
	}
}

//
// TRACE            toggle statement tracing
// TRACE ON | OFF
// TRACE DUMP       also dump loop and call frames as they are pushed
//

func (c *console) executeTrace(arg string) {

	dump := false

	switch arg {
	default:
		fmt.Fprintln(c.out, "trace [on|off|dump]")
		return

	case "":
		c.tracing = !c.tracing

	case "ON":
		c.tracing = true

	case "OFF":
		c.tracing = false

	case "DUMP":
		c.tracing = true
		dump = true
	}

	c.run.SetTrace(c.tracing, dump)
	c.log.setTracing(c.tracing)

	fmt.Fprintf(c.out, "trace %s\n", onOff(c.tracing))
}

//
// Print what stopped the program.  A clean finish prints nothing
//

func (c *console) report(err error) {

	c.out.Flush()

	if err == nil {
		return
	}

	var brk *gwbasic.Break
	var re *gwbasic.RunError

	switch {
	default:
		c.log.Error("unexpected error", "error", err)

	case errors.As(err, &brk):
		fmt.Fprintln(c.out, brk.Error())

	case errors.As(err, &re):
		fmt.Fprintln(c.out, re.Error())
	}

	c.out.Flush()
}

func onOff(b bool) string {

	if b {
		return "on"
	}

	return "off"
}
