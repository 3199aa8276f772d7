// Command import migrates a legacy key-value export into the project store.
// The export carries a "keys" listing (whose shape varies between array,
// object-with-keys and bare object) plus the raw records.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/roomify-labs/roomify-backend/config"
	"github.com/roomify-labs/roomify-backend/internal/kv"
	"github.com/roomify-labs/roomify-backend/internal/projects/domain"
	"github.com/roomify-labs/roomify-backend/internal/projects/repository"
)

const projectKeyPrefix = "project:"

type export struct {
	Keys    json.RawMessage            `json:"keys"`
	Records map[string]json.RawMessage `json:"records"`
}

func main() {
	var (
		path  = flag.String("file", "", "path to the legacy KV export (JSON)")
		owner = flag.String("owner", "", "owner uid for records missing one")
	)
	flag.Parse()

	if *path == "" {
		log.Fatal("usage: import -file export.json [-owner uid]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("read export: %v", err)
	}

	var ex export
	if err := json.Unmarshal(raw, &ex); err != nil {
		log.Fatalf("parse export: %v", err)
	}

	keys, err := kv.DecodeKeyList(ex.Keys)
	if err != nil {
		log.Fatalf("decode key list: %v", err)
	}

	ctx := context.Background()
	client, err := kv.Open(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("kv: %v", err)
	}
	defer client.Close()

	repo := repository.NewProjectRepository(client)

	imported, skipped := 0, 0
	for _, key := range keys {
		if !strings.HasPrefix(key, projectKeyPrefix) {
			continue
		}

		rec, ok := ex.Records[key]
		if !ok {
			log.Printf("skip %s: listed but missing from records", key)
			skipped++
			continue
		}

		var p domain.Project
		if err := json.Unmarshal(rec, &p); err != nil {
			log.Printf("skip %s: %v", key, err)
			skipped++
			continue
		}

		if p.ID == "" {
			p.ID = strings.TrimPrefix(key, projectKeyPrefix)
		}
		if p.OwnerID == "" {
			p.OwnerID = *owner
		}

		if err := repo.Save(ctx, &p); err != nil {
			log.Printf("skip %s: %v", key, err)
			skipped++
			continue
		}
		imported++
	}

	log.Printf("imported %d projects, skipped %d", imported, skipped)
}
