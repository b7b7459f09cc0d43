package main

import "golang-quizlink/cmd"

func main() {
	cmd.Execute()
}
