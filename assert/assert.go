// Package assert checks internal invariants and panics when one is broken.
// Building with the assertions_disabled tag compiles every check to nothing.
//
// Checks are meant for conditions no input can violate. Input validation
// returns errors instead.
package assert

import "fmt"

// message formats the optional panic arguments. A leading string is used as a
// format for the rest.
func message(args []any) string {
	if len(args) == 0 {
		return "assertion failed"
	}

	if format, ok := args[0].(string); ok {
		return fmt.Sprintf(format, args[1:]...)
	}

	return fmt.Sprintf("assertion failed: %v", args)
}
