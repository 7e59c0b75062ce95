// Command token issues an API bearer token for a user, e.g. for the bot
// process or a local client:
//
//	go run ./cmd/token -user 123456789
package main

import (
	"flag"
	"fmt"
	"log"

	authRepo "voice-journal/internal/auth/repository"
	authUsecase "voice-journal/internal/auth/usecase"
	"voice-journal/pkg/config"
)

func main() {
	userID := flag.String("user", "", "user ID (the Telegram user ID for chat reminders)")
	expiry := flag.Duration("expiry", 0, "token lifetime (defaults to JWT_ACCESS_EXPIRY)")
	flag.Parse()

	cfg := config.Load()
	if *expiry <= 0 {
		*expiry = cfg.JWTAccessExpiry
	}

	// Issuing a token does not touch device storage
	authUc := authUsecase.NewAuthUsecase(authRepo.NewMemoryFCMTokenRepository(), cfg.JWTSecret, *expiry)
	token, err := authUc.IssueToken(*userID)
	if err != nil {
		log.Fatal("Failed to issue token: ", err)
	}
	fmt.Println(token)
}
