// Command token mints a bearer token for the dashboard API using the
// configured JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ariefcatur/barbershop-dashboard/internal/auth"
	"github.com/ariefcatur/barbershop-dashboard/internal/config"
	"github.com/joho/godotenv"
)

func main() {
	sub := flag.String("sub", "", "user id (required)")
	role := flag.String("role", auth.RoleDefault, "admin or default")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	raw, exp, err := tokens.Issue(*sub, *role, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Println(raw)
	fmt.Fprintf(os.Stderr, "expires %s\n", exp.Format(time.RFC3339))
}
