// Command token issues a development access token for the API.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"centralvendas/internal/auth"
	"centralvendas/internal/config"
)

func main() {
	tenantID := flag.String("tenant", "", "tenant id (required)")
	userID := flag.String("user", "", "user id")
	role := flag.String("role", "ADMIN", "user role")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *tenantID == "" {
		log.Fatal("-tenant is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	token, err := auth.NewTokenService(cfg.Auth.JWTSecret).Issue(auth.Principal{
		TenantID: *tenantID,
		UserID:   *userID,
		Role:     *role,
	}, *ttl)
	if err != nil {
		log.Fatalf("issuing token: %v", err)
	}

	fmt.Println(token)
}
