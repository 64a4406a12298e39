// Command crispdm serves the interactive CRISP-DM regression demo and
// prints one-off reports.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
