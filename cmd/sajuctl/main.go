// Command sajuctl computes charts, ingests subject files and load-tests a
// running saju server.
package main

import "github.com/okian/saju/internal/cli"

func main() {
	cli.Execute()
}
