// Command token mints an access token for calling the salary engine API
// outside the upstream identity provider, e.g. in local development.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/salary-engine/internal/config"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/jwt"
)

func main() {
	userID := flag.String("user", "", "user_id claim recorded as approver or payer")
	role := flag.String("role", "hr_admin", "role claim")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "-user is required")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).GenerateAccessToken(*userID, *role)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintln(os.Stderr, "expires at", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
}
