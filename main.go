package main

import "github.com/dt-pm-tools/readme-publish/cmd"

func main() {
	cmd.Execute()
}
