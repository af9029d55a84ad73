// Command doctool fills templates, renders ledgers and mints development
// tokens without the HTTP service.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
