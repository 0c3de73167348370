// project-memory: workflow prompts for keeping project memory in sync.
//
// An MCP server that works with any AI coding tool. Each tool returns a
// workflow prompt; projects customize prompts by dropping files into
// .project-memory/prompts/.
//
// Usage:
//
//	project-memory serve             # Start MCP server (stdio transport)
//	project-memory render review     # Print what the review tool returns here
//	project-memory templates         # List tools and their templates
//	project-memory version
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
