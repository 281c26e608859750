// Command smartop runs sparse matrix operations from CSV files on a serial,
// pooled or distributed engine, and serves as an HTTP worker for the latter.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "smartop:", err)
		os.Exit(1)
	}
}
