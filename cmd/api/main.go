package main

import (
	"context"
	"log"

	"github.com/roomify-labs/roomify-backend/config"
	"github.com/roomify-labs/roomify-backend/internal/auth"
	"github.com/roomify-labs/roomify-backend/internal/bootstrap"
	"github.com/roomify-labs/roomify-backend/internal/hosting"
	"github.com/roomify-labs/roomify-backend/internal/kv"

	firebaseauth "firebase.google.com/go/v4/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	kvClient, err := kv.Open(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("kv: %v", err)
	}
	defer kvClient.Close()

	var authClient *firebaseauth.Client
	if cfg.Firebase.CredentialsPath != "" {
		authClient, err = auth.InitializeFirebase(&cfg.Firebase)
		if err != nil {
			log.Fatalf("firebase: %v", err)
		}
	} else if cfg.Firebase.DevBypass {
		log.Println("Warning: Firebase disabled, X-User-Id dev bypass active")
	} else {
		log.Fatal("FIREBASE_CREDENTIALS_PATH or AUTH_DEV_BYPASS is required")
	}

	backend, err := hosting.NewS3Backend(ctx, &cfg.Hosting)
	if err != nil {
		log.Fatalf("hosting backend: %v", err)
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "roomify-backend",
		Version:     cfg.App.Version,
		Config:      cfg,
		KV:          kvClient,
		AuthClient:  authClient,
		Backend:     backend,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
