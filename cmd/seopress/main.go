// Package main provides the seopress command: fetch source articles, rewrite
// them through a generation service and publish them to WordPress.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
