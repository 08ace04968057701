// main is the entry point for the devpick CLI.
package main

import (
	"github.com/huangsam/devpick/cmd"
	"github.com/huangsam/devpick/internal/contract"
	"github.com/huangsam/devpick/internal/runstore"
)

func main() {
	cmd.SetStoreManager(runstore.Manager)
	err := cmd.Execute()
	runstore.CloseRunStore()
	if err != nil {
		contract.LogFatal("devpick failed", err)
	}
}
