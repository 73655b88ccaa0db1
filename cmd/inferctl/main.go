// Command inferctl talks to a running inferd instance: it sends generation
// and classification requests over the thrift RPC port and reads status from
// the admin HTTP port.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"inferd/internal/inferctl"
)

func main() {
	_ = godotenv.Load()

	if err := inferctl.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
