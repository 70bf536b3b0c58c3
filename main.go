package main

import (
	"os"

	"github.com/Anwar-Qureshi/SkillBridge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
