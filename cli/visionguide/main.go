// Package main is the visionguide CLI command itself.
package main

import (
	"log"
	"os"

	"github.com/arktos-robotics/visionguide/cli"
)

func main() {
	if err := cli.NewApp(nil).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
