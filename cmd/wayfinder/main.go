// Command wayfinder hosts the MyJet demo: interactively in a terminal, as an
// HTTP inspector, or replaying scenario scripts.
package main

func main() {
	Execute()
}
