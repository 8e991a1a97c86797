package gwbasic

import (
	"log/slog"
	"math/big"
	"strconv"
	"strings"

	"github.com/goforj/godump"
)

const stringGCThreshold = 4096

func discardLogger() *slog.Logger {

	return slog.New(slog.DiscardHandler)
}

//
// Statement tracing.  TRACE ON in the console sets TraceExec, and
// TraceDump additionally dumps each loop or call frame as it is pushed
//

func (r *Run) traceStmt(keyword string) {

	if r.cfg.TraceExec {
		r.log.Debug("exec", "line", r.curLine, "stmt", keyword,
			"pos", int(r.stmtStart))
	}
}

func (r *Run) traceFrame(frame any) {

	if r.cfg.TraceDump {
		godump.Dump(frame)
	}
}

// SetTrace switches statement tracing and frame dumps.
func (r *Run) SetTrace(exec, dump bool) {

	r.cfg.TraceExec = exec
	r.cfg.TraceDump = dump
}

//
// Between statements nothing but variables can hold a string, so this
// is the one safe place to throw the rest away
//

type stringCollector interface {
	Len() int
	Collect(live []uint16)
}

type stringRooter interface {
	StringPointers() []uint16
}

func (r *Run) collectStrings() {

	c, ok := r.values.heap.(stringCollector)
	if !ok || c.Len() < stringGCThreshold {
		return
	}

	roots, ok := r.vars.(stringRooter)
	if !ok {
		return
	}

	c.Collect(roots.StringPointers())
}

//
// PRINT formatting.  Numbers get a leading blank (or the minus sign)
// and a trailing blank; floats use 7 significant digits for Single and
// 16 for Double, with E or D marking the exponent
//

func (r *Run) formatValue(v Value) (string, error) {

	if v.Type() == StringType {
		b, err := r.values.StrBytes(v)
		return string(b), err
	}

	return formatNumber(v), nil
}

func formatNumber(v Value) string {

	var s string

	switch v.Type() {
	default:
		return ""

	case IntegerType:
		s = strconv.Itoa(int(v.Int()))

	case SingleType:
		s = formatFloat(v.Float(), 7, "E")

	case DoubleType:
		s = formatFloat(v.Float(), 16, "D")
	}

	if !v.IsNegative() {
		s = " " + s
	}

	return s + " "
}

// FormatNumber renders a numeric value the way PRINT does, without
// the surrounding blanks.
func FormatNumber(v Value) string {

	return strings.TrimSpace(formatNumber(v))
}

func formatFloat(f *big.Float, digits int, expMark string) string {

	if f.Sign() == 0 {
		return "0"
	}

	s := f.Text('g', digits)

	mant, exp, hasExp := strings.Cut(s, "e")

	if strings.HasPrefix(mant, "0.") {
		mant = mant[1:]
	} else if strings.HasPrefix(mant, "-0.") {
		mant = "-" + mant[2:]
	}

	if hasExp {
		return mant + expMark + exp
	}

	return mant
}
