package main

import "github.com/jobpulse/jobpulse/cmd"

func main() {
	cmd.Execute()
}
