// Command gamerank aggregates per-source game rankings into consensus lists.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/gamerank/cmd"
	"github.com/huangsam/gamerank/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	iocache.CloseStores()
	if perr := cmd.StopProfiling(); perr != nil {
		_, _ = fmt.Fprintln(os.Stderr, perr)
	}
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
