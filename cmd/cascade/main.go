// Command cascade validates page definitions and replays scripts against them
// headlessly, printing the animated state frame by frame.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
