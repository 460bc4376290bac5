package assert

import "github.com/bloeys/meshattr/logging"

// T panics with the formatted message if check is false.
//
// Asserts are only active when built without the 'release' tag, so they must
// never guard something a caller can trigger with valid input.
func T(check bool, msg string, args ...any) {

	if !Enabled || check {
		return
	}

	logging.ErrLog.Panicf("Assert failed: "+msg, args...)
}
