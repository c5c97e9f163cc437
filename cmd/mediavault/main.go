// Package main starts the mediavault service.
package main

import "github.com/ridgeline/mediavault/pkg/cmd"

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
