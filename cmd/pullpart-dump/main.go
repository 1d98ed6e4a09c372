// Command pullpart-dump streams a multipart/form-data body through the
// Decoder and prints its event trace, one line per event. It exists to
// demonstrate the library end-to-end; it is not part of the decoder API.
package main

import (
	"fmt"
	"os"

	"github.com/badu/pullpart/cmd/pullpart-dump/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
