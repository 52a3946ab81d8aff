package main

import "sjsage522/bookworker/cmd"

func main() {
	cmd.Execute()
}
