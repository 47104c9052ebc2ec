package main

import (
	"fmt"
	"log"
	"os"

	firewallcmd "github.com/safedep/firewall/cmd/firewall"
	"github.com/safedep/firewall/internal/logging"
)

func main() {
	if err := logging.Init(os.Getenv("FIREWALL_DEBUG") != ""); err != nil {
		log.Println("failed to initialize logger:", err)
	}

	if err := firewallcmd.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
