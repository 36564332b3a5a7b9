package main

import "github.com/yaadplay/storefront/cmd"

func main() {
	cmd.Execute()
}
