package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/csight/reportd/internal/onboard"
)

// hashkey reads an onboarding key from stdin and prints its bcrypt hash.
func main() {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		slog.Error("read key from stdin", "err", err)
		os.Exit(1)
	}

	hash, err := onboard.HashKey(strings.TrimRight(line, "\r\n"))
	if err != nil {
		slog.Error("hash key", "err", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
