// Command devtoken mints an actor token for local testing against the API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"

	"github.com/yungbote/collab-backend/internal/domain/collab"
	httpMW "github.com/yungbote/collab-backend/internal/http/middleware"
)

type tokenConfig struct {
	Secret string `env:"JWT_SECRET_KEY" envDefault:"defaultsecret"`
}

func main() {
	var (
		subject = flag.String("sub", "", "actor id (uuid); random when empty")
		role    = flag.String("role", "BRAND", "BRAND, CREATOR, MANAGER or ADMIN")
		ttl     = flag.Duration("ttl", 24*time.Hour, "token lifetime")
	)
	flag.Parse()

	var cfg tokenConfig
	if err := env.Parse(&cfg); err != nil {
		fail("parse env: %v", err)
	}

	id := uuid.New()
	if *subject != "" {
		parsed, err := uuid.Parse(*subject)
		if err != nil {
			fail("invalid -sub: %v", err)
		}
		id = parsed
	}
	r, ok := collab.ParseRole(*role)
	if !ok {
		fail("invalid -role %q", *role)
	}

	token, err := httpMW.SignActorToken(cfg.Secret, collab.Actor{ID: id, Role: r}, *ttl)
	if err != nil {
		fail("sign: %v", err)
	}
	fmt.Printf("actor=%s role=%s\n%s\n", id, r, token)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
