// Command edgeform-seed provisions the admin secrets into the edgekv
// store before the server's first use. The server itself never writes
// them; it only reads admin_password_hash and jwt_secret at request time.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edgeform/edgeform/internal/auth"
	"github.com/edgeform/edgeform/internal/config"
	"github.com/edgeform/edgeform/internal/kv"
	"github.com/edgeform/edgeform/internal/repository"
)

func main() {
	password := flag.String("password", "", "admin password to hash and store (required)")
	secret := flag.String("secret", "", "token signing secret (default: random)")
	hashScheme := flag.String("hash", "bcrypt", "hash scheme: bcrypt or sha256")
	flag.Parse()

	if *password == "" {
		log.Fatal("edgeform-seed: -password is required")
	}

	var hash string
	switch *hashScheme {
	case "bcrypt":
		h, err := auth.HashPassword(*password)
		if err != nil {
			log.Fatalf("edgeform-seed: hash password: %v", err)
		}
		hash = h
	case "sha256":
		hash = auth.HashPasswordSHA256(*password)
	default:
		log.Fatalf("edgeform-seed: unknown hash scheme %q", *hashScheme)
	}

	signingSecret := *secret
	if signingSecret == "" {
		signingSecret = strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	}

	cfg := config.Load()
	client, err := kv.Connect(cfg.EdgeKVHost, cfg.EdgeKVPort, cfg.Namespace, 5*time.Second)
	if err != nil {
		log.Fatalf("edgeform-seed: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	if err := client.Put(ctx, repository.KeyAdminPasswordHash, []byte(hash)); err != nil {
		log.Fatalf("edgeform-seed: store password hash: %v", err)
	}
	if err := client.Put(ctx, repository.KeyJWTSecret, []byte(signingSecret)); err != nil {
		log.Fatalf("edgeform-seed: store jwt secret: %v", err)
	}

	fmt.Printf("Seeded %s and %s into namespace %s\n", repository.KeyAdminPasswordHash, repository.KeyJWTSecret, cfg.Namespace)
	if *secret == "" {
		fmt.Printf("Generated signing secret: %s\n", signingSecret)
	}
}
