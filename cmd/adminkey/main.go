// Command adminkey prints the bcrypt hash to use as AUTH_ADMIN_KEY_HASH.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spec-kit/maml-online/internal/auth"
	"github.com/spec-kit/maml-online/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	fmt.Fprint(os.Stderr, "admin registration key: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		log.Fatalf("failed to read key: %v", err)
	}
	key := strings.TrimRight(line, "\r\n")
	if key == "" {
		log.Fatal("key must not be empty")
	}

	hash, err := auth.HashPassword(key, cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatalf("failed to hash key: %v", err)
	}
	fmt.Println(hash)
}
