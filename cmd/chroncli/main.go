// Package main is the entry point for chroncli, a terminal calendar and task
// scheduler.
package main

import "os"

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
