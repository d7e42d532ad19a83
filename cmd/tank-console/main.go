package main

import "github.com/oshokin/tank-emergency/cmd/tank-console/cmd"

func main() {
	cmd.Execute()
}
