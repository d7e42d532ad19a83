package main

import "github.com/oshokin/tank-emergency/cmd/tank-server/cmd"

func main() {
	cmd.Execute()
}
