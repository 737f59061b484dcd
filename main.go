package main

import "github.com/pradiptar/leave-management/cmd"

func main() {
	cmd.Execute()
}
