package cli

// SetInteractive replaces the terminal check and returns a restore func.
func SetInteractive(interactive bool) func() {
	prev := isInteractive
	isInteractive = func() bool { return interactive }
	return func() { isInteractive = prev }
}
