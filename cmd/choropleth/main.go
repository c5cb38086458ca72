// Command choropleth styles region datasets offline.
//
// Usage:
//
//	choropleth style --regions countries.geojson --metrics values.json [--highlight USA]
//	choropleth legend
//	choropleth resolve 1500 800 abc
package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
