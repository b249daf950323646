package main

import "pyrite/cmd"

func main() {
	cmd.Execute()
}
