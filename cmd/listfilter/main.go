// listfilter authors and previews dropdown filters for CMS listing screens.
package main

import (
	"os"

	"github.com/hupe1980/listfilter/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
