// Command tokengen mints a bearer token for an existing user ID.
//
//	go run ./cmd/tokengen -user 1
package main

import (
	"flag"
	"fmt"
	"os"

	"marketplace-api/internal/auth"
	"marketplace-api/internal/config"
)

func main() {
	userID := flag.Uint("user", 0, "user ID to put in the token subject")
	secret := flag.String("secret", "", "signing secret (defaults to JWT_SECRET)")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to TOKEN_TTL)")
	flag.Parse()

	if *userID == 0 {
		fmt.Fprintln(os.Stderr, "tokengen: -user is required")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: %v\n", err)
		os.Exit(1)
	}
	if *secret == "" {
		*secret = cfg.JWTSecret
	}
	if *ttl == 0 {
		*ttl = cfg.TokenTTL
	}

	token, err := auth.IssueToken(*secret, *userID, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
