// Binary logflags
package main

import "github.com/idr0id/logflags/cmd"

func main() {
	cmd.Execute()
}
