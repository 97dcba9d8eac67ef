// Command ecrsctl exercises a libecrs Module from the command line:
// loading a small YAML scenario, running one of the bundled relational
// queries against it, or printing a scenario module's entity counts.
package main

func main() {
	Execute()
}
