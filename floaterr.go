package gwbasic

import (
	"context"
	"log/slog"
)

// MessageSink receives diagnostic lines, such as the Overflow notice
// printed when a soft float error is substituted.
type MessageSink interface {
	WriteLine(s string)
}

//
// A numeric fault raised inside the arithmetic code.  neg is the sign
// the exact result would have had
//

type floatFault struct {
	code int
	neg  bool
}

func (f *floatFault) Error() string {

	return getErrorMsg(f.code)
}

//
// Overflow and Division by zero in floating point are 'soft': unless
// we are suspended, a message is printed, the largest value of the
// right sign is returned, and the program carries on.  Integer
// arithmetic never gets this treatment, nor does anything else
//

// FloatErrorHandler decides what happens to numeric faults.
type FloatErrorHandler struct {
	sink      MessageSink
	log       *slog.Logger
	suspended bool
}

func NewFloatErrorHandler(sink MessageSink, log *slog.Logger) *FloatErrorHandler {

	if log == nil {
		log = discardLogger()
	}

	return &FloatErrorHandler{sink: sink, log: log}
}

// Suspend turns soft errors into hard ones while on is true.  The run
// context does this whenever an ON ERROR trap is armed or a handler is
// executing, so the trap sees the error instead of a substitute.
func (h *FloatErrorHandler) Suspend(on bool) {

	h.suspended = on
}

func (h *FloatErrorHandler) Suspended() bool {

	return h.suspended
}

func isSoftError(code int) bool {

	return code == errOverflow || code == errDivisionByZero
}

//
// Resolve a fault raised while computing a value of type vt.  Either a
// substitute value comes back, or the RunError to raise
//

func (h *FloatErrorHandler) handle(fault *floatFault, vt VarType) (Value, error) {

	if h == nil || h.suspended || h.sink == nil ||
		!isSoftError(fault.code) || vt == IntegerType || vt == StringType {
		return Value{}, newRunError(fault.code)
	}

	msg := getErrorMsg(fault.code)

	h.log.LogAttrs(context.Background(), slog.LevelWarn, "soft float error",
		slog.String("error", msg), slog.String("type", vt.String()),
		slog.Bool("negative", fault.neg))

	h.sink.WriteLine(msg)

	return maxValue(vt, fault.neg), nil
}
