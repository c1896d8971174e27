package main

import "github.com/OpenTraceLab/ucfgen/cmd/ucfgen/cmd"

func main() {
	cmd.Execute()
}
