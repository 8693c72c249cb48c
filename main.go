package main

import "github.com/notargets/gograd/cmd"

func main() {
	cmd.Execute()
}
