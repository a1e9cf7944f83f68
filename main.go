// SPDX-License-Identifier: MPL-2.0

package main

import cmd "catalint/cmd/catalint"

func main() {
	cmd.Execute()
}
