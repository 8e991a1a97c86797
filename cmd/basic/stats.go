package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/tklauser/go-sysconf"
)

// stats holds the CPU times and wall clock at the start of a run, so
// the report after it shows only what the program used.
type stats struct {
	elapsed time.Time
	utime   int64
	stime   int64
}

func (c *console) resetStatistics() {

	c.stats.elapsed = time.Now()

	utime, stime, err := getCPUInfo()
	if err != nil {
		c.log.Warn("read cpu times", "error", err)
		return
	}

	c.stats.utime = utime
	c.stats.stime = stime
}

func (c *console) printStatistics() {

	var mem runtime.MemStats

	if !c.printStats {
		return
	}

	fmt.Fprintln(c.out)
	c.printCpuUsage()
	runtime.GC()
	runtime.ReadMemStats(&mem)
	fmt.Fprintf(c.out, "%dMB memory used\n", convertToMB(mem.HeapAlloc))

	n := c.run.Statements()
	fmt.Fprintf(c.out, "%d %s executed\n", n, pluralize("statement", n))
	c.out.Flush()
}

func (c *console) printCpuUsage() {

	elapsed := time.Since(c.stats.elapsed)

	utime, stime, err := getCPUInfo()
	if err != nil {
		c.log.Warn("read cpu times", "error", err)
		return
	}

	fmt.Fprintf(c.out, "CPU Usage: elapsed = %s / user = %s / system = %s\n",
		formatCPUTime(int64(elapsed.Seconds())),
		formatCPUTime(utime-c.stats.utime), formatCPUTime(stime-c.stats.stime))
}

func formatCPUTime(t int64) string {

	var h, m int64

	if t >= 3600 {
		h = t / 3600
		t = t % 3600
	}

	if t >= 60 {
		m = t / 60
		t = t % 60
	}

	return fmt.Sprintf("%02d:%02d:%02d", h, m, t)
}

//
// User and system time in seconds, from /proc.  Fields 14 and 15 of
// /proc/self/stat are in clock ticks
//

func getCPUInfo() (int64, int64, error) {

	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil {
		return 0, 0, err
	}

	contents, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return 0, 0, err
	}

	return parseCPUTimes(string(contents), clktck)
}

func parseCPUTimes(stat string, clktck int64) (int64, int64, error) {

	if clktck <= 0 {
		return 0, 0, fmt.Errorf("bad clock tick rate %d", clktck)
	}

	//
	// The command name in field 2 may hold blanks, so count from the
	// closing paren
	//

	if i := strings.LastIndexByte(stat, ')'); i >= 0 {
		stat = "pid comm" + stat[i+1:]
	}

	fields := strings.Fields(stat)
	if len(fields) < 15 {
		return 0, 0, fmt.Errorf("short stat line (%d fields)", len(fields))
	}

	utime, err := strconv.ParseInt(fields[13], 10, 64)
	if err != nil {
		return 0, 0, err
	}

	stime, err := strconv.ParseInt(fields[14], 10, 64)
	if err != nil {
		return 0, 0, err
	}

	return utime / clktck, stime / clktck, nil
}

func convertToMB(n uint64) uint64 {

	return n / (1024 * 1024)
}

func pluralize(s string, n int) string {

	if n == 1 {
		return s
	}

	return s + "s"
}
