// Command sunset runs the animated day/night scene. Click, tap or press
// space to start the sunset; trigger again to pause or resume. With
// --headless it drives the scene from a trigger script instead of a window.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
