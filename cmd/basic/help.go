package main

import (
	"fmt"
)

func (c *console) executeHelp(targ string) {

	defer c.out.Flush()

	switch targ {
	default:
		fmt.Fprintf(c.out, "No help for %q\n", targ)

	case "":
		fmt.Fprintln(c.out, "bye")
		fmt.Fprintln(c.out, "cont")
		fmt.Fprintln(c.out, "list")
		fmt.Fprintln(c.out, "load")
		fmt.Fprintln(c.out, "new")
		fmt.Fprintln(c.out, "run")
		fmt.Fprintln(c.out, "save")
		fmt.Fprintln(c.out, "stats")
		fmt.Fprintln(c.out, "trace")

	case "BYE", "SYSTEM":
		fmt.Fprintln(c.out, "Exit from BASIC")

	case "CONT":
		fmt.Fprintln(c.out, "Continue execution of user program after STOP"+
			" or ^C")

	case "LIST":
		fmt.Fprintln(c.out, "List the program, one line or a range of"+
			" lines")
		fmt.Fprintln(c.out, "\tlist 100")
		fmt.Fprintln(c.out, "\tlist 100-200")
		fmt.Fprintln(c.out, "\tlist -200")

	case "LOAD":
		fmt.Fprintln(c.out, "Erase the current program and load one from"+
			" a file")

	case "NEW":
		fmt.Fprintln(c.out, "Erase the current program and its variables")

	case "RUN":
		fmt.Fprintln(c.out, "Execute the current program, optionally"+
			" starting at a given line")

	case "SAVE":
		fmt.Fprintln(c.out, "Save the current program to a file")

	case "STATS":
		fmt.Fprintln(c.out, "Toggle printing execution statistics when user"+
			" program stops")

	case "TRACE":
		fmt.Fprintln(c.out, "Toggle tracing of user statement execution")
		fmt.Fprintln(c.out, "\ttrace on")
		fmt.Fprintln(c.out, "\ttrace off")
		fmt.Fprintln(c.out, "\ttrace dump")
	}
}
