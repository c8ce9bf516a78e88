// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/voidvoxel/sapm/cmd/sapm"

func main() {
	cmd.Execute()
}
