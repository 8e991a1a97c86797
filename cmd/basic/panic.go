package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
)

//
// Wrapper for one console command.  A Go panic anywhere below it is
// decoded and reported, and the console goes back to the prompt
//

func (c *console) call(f func()) {

	defer func() {
		if e := recover(); e != nil {
			c.decodePanic(e)
		}
	}()

	f()
}

//
// The frame we want is the first non-runtime one after runtime.gopanic,
// which is the code that actually blew up, not the caller of panic
//

func (c *console) decodePanic(e any) {

	frame, ok := panicFrame()

	c.out.Flush()

	if !ok {
		c.log.Error("internal error", "panic", fmt.Sprint(e))
	} else {
		c.log.Error("internal error", "panic", fmt.Sprint(e),
			"file", filepath.Base(frame.File), "line", frame.Line)
	}

	if c.log.Enabled(context.Background(), slog.LevelDebug) {
		debug.PrintStack()
	}

	//
	// Whatever was running is in an unknown state, so CONT must not
	// pick it up again
	//

	c.run.Reset()

	fmt.Fprintln(c.out, "Internal error")
	c.out.Flush()
}

func panicFrame() (runtime.Frame, bool) {

	var panicSeen bool

	pcs := make([]uintptr, 64)
	frames := runtime.CallersFrames(pcs[:runtime.Callers(2, pcs)])

	for {
		frame, more := frames.Next()

		if frame.Function == "runtime.gopanic" {
			panicSeen = true
		} else if panicSeen && !strings.HasPrefix(frame.Function, "runtime.") {
			return frame, true
		}

		if !more {
			return runtime.Frame{}, false
		}
	}
}
