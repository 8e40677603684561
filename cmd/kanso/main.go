// Command kanso is the command line client of the kanso diary.
package main

import (
	"os"

	"github.com/comitanigiacomo/kanso-diary/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
