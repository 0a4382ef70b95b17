package main

import "github.com/fauzankm/storefront/cmd"

func main() {
	cmd.Start()
}
