// main is the entry point for the scoretools CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/scoretools/cmd"
	"github.com/huangsam/scoretools/internal/contract"
	"github.com/huangsam/scoretools/internal/xlsx"
)

func main() {
	err := cmd.Execute()
	if closeErr := cmd.Close(); closeErr != nil {
		contract.LogWarn("Failed to release resources", closeErr)
	}
	if closeErr := xlsx.CloseAll(); closeErr != nil {
		contract.LogWarn("Failed to save open workbooks", closeErr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
