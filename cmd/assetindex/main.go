package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ikkim/udonggeum-storefront/internal/asset"
)

// assetindex converts a spreadsheet of bundled assets (name, handle) into the
// YAML index the server loads at startup.
func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: go run cmd/assetindex/main.go <xlsx_file_path> <yaml_output_path>")
	}

	inPath, outPath := os.Args[1], os.Args[2]

	fmt.Printf("Reading XLSX file: %s\n", inPath)
	entries, err := asset.ReadIndexXLSX(inPath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	if len(entries) == 0 {
		log.Fatal("No asset entries found, refusing to write an empty index")
	}

	// Collisions after normalization would silently shadow each other at lookup time
	if idx := asset.NewIndex(entries); idx.Len() < len(entries) {
		fmt.Printf("Warning: %d entries collide after lowercasing\n", len(entries)-idx.Len())
	}

	if err := asset.WriteIndexYAML(outPath, entries); err != nil {
		log.Fatal("Failed to write index:", err)
	}

	fmt.Printf("Wrote %d entries to %s\n", len(entries), outPath)
}
