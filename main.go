package main

import "github.com/gaurav-prasanna/quizbook/cmd"

func main() {
	cmd.Execute()
}
