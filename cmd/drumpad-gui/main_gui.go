//go:build gui
// +build gui

package main

import (
	"log"
	"os"
)

func main() {
	pad := NewDrumPadGUI()

	// Optional kit: a folder of .dat files, a .json manifest or a single .dat
	if len(os.Args) > 1 {
		if err := pad.loadKitPath(os.Args[1]); err != nil {
			log.Printf("Failed to load kit: %v", err)
		}
	}

	pad.Run()
}
