// Copyright © 2020 One Concern

package main

import (
	"github.com/oneconcern/catalog/cmd/catalog/cmd"
)

func main() {
	cmd.Execute()
}
