// Command slist drives the slist package from the command line.
package main

func main() {
	execute()
}
