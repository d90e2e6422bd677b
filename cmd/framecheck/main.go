// Package main provides the framecheck CLI: schema validation for tabular
// files against declared column schemas.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if msg := ee.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(ee.code)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(exitUserError)
}
