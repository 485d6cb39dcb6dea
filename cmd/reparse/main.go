// Command reparse recovers schema-conforming structured data from model
// output, either from text on disk/stdin or by driving a provider directly.
package main

import (
	"os"

	"github.com/jmylchreest/reparse/cmd/reparse/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
