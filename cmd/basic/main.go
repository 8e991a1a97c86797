package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gwbasic"
)

func main() {

	configPath := flag.String("c", "", "path to a YAML configuration file")
	debug := flag.Bool("d", false, "log at debug level, with caller info")
	noColor := flag.Bool("n", false, "disable colored log output")
	flag.Parse()

	cfg := gwbasic.DefaultConfig()

	if *configPath != "" {
		var err error
		if cfg, err = gwbasic.LoadConfig(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	if *noColor {
		cfg.NoColor = true
	}

	logs, err := newLogger(cfg, *debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logs.close()

	c := newConsole(cfg, logs, os.Stdout)

	if flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Usage: basic [-c config] [-d] [-n] [program]")
		os.Exit(2)
	}

	if flag.NArg() == 1 {
		c.executeLoad(flag.Arg(0))
	}

	//
	// The reader has to be closed on the way out so the terminal goes
	// back to cooked mode
	//

	rd := newLineReader()
	defer rd.close()

	go sigHdlr(c)

	c.printVersionInfo()
	c.loop(rd)
}

//
// ^C while a program runs sets the interrupt flag, which the run loop
// picks up at its next checkpoint.  At the prompt the line editor owns
// the terminal and sees ^C itself
//

func sigHdlr(c *console) {

	ch := make(chan os.Signal, 1)

	signal.Ignore(syscall.SIGTSTP)
	signal.Notify(ch, syscall.SIGINT)

	for range ch {
		c.interrupted.Store(true)
	}
}
