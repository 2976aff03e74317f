// Command torch manages the Teaching Torch resource catalog.
package main

import "github.com/teachingtorch/torch/internal/cli"

func main() {
	cli.Execute()
}
