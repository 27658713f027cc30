package main

import (
	"fmt"
	"os"

	"github.com/sinwaunyu/site/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sinwa-site:", err)
		os.Exit(1)
	}
}
