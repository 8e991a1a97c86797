package main

import (
	"bufio"
	"io"
	"os"

	"github.com/danswartzendruber/liner"
	"golang.org/x/term"
)

// lineReader supplies console input lines.  io.EOF means the user is
// done.
type lineReader interface {
	readLine(prompt string) (string, error)
	close()
}

//
// With a terminal on both ends we get line editing and history.  A
// pipe or a redirected file is read plainly, with no prompt echoed
//

func newLineReader() lineReader {

	if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		l := liner.NewLiner()
		l.SetMultiLineMode(false)
		return &linerReader{l: l}
	}

	return &pipeReader{sc: bufio.NewScanner(os.Stdin)}
}

type linerReader struct {
	l *liner.State
}

func (lr *linerReader) readLine(prompt string) (string, error) {

	s, err := lr.l.Prompt(prompt)

	//
	// ^C at the prompt just throws the line away
	//

	if err == liner.ErrPromptAborted {
		return "", nil
	}

	if err != nil {
		return "", err
	}

	if s != "" {
		lr.l.AppendHistory(s)
	}

	return s, nil
}

func (lr *linerReader) close() {

	if lr.l != nil {
		lr.l.Close()
		lr.l = nil
	}
}

type pipeReader struct {
	sc *bufio.Scanner
}

func (pr *pipeReader) readLine(string) (string, error) {

	if pr.sc.Scan() {
		return pr.sc.Text(), nil
	}

	if err := pr.sc.Err(); err != nil {
		return "", err
	}

	return "", io.EOF
}

func (pr *pipeReader) close() {
}
