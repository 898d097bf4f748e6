package main

import "github.com/Ever-fnf/imc/cmd"

func main() {
	cmd.Execute()
}
