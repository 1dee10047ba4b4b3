package main

import "llc/cmd"

func main() {
	cmd.Execute()
}
