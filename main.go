package main

import "github.com/arboriq/arboriq-api/cmd"

func main() {
	cmd.Execute()
}
