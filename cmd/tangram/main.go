// Command tangram runs tangram puzzle rounds and manages shape catalogs.
package main

import "github.com/mesh-intelligence/tangram/internal/cli"

func main() {
	cli.Execute()
}
