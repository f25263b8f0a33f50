// Command desim runs the bundled example scenarios, serves the HTTP
// monitor, or records a scenario's hook events to a SQLite trace.
package main

func main() {
	Execute()
}
