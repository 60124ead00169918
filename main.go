package main

import "svtdl/cmd"

func main() {
	cmd.Execute()
}
