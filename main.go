package main

import "github.com/mempirate/advisor/cmd"

func main() {
	cmd.Execute()
}
