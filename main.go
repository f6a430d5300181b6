package main

import "github.com/Mohsinsiddi/coinx/cmd"

func main() {
	cmd.Execute()
}
