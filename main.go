package main

import "geosync/cmd"

func main() {
	cmd.Execute()
}
