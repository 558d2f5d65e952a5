// Command inventario is a development harness that wires the full stack —
// document store, blob storage, local cart slot, auth and the view-state
// managers — and keeps the cart persisted until interrupted. It selects real
// backends (Postgres, Redis, a blob directory) when configured and falls back
// to in-memory implementations otherwise.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vivicarm/AppIventario/internal/auth"
	"github.com/vivicarm/AppIventario/internal/blobstore"
	"github.com/vivicarm/AppIventario/internal/cart"
	"github.com/vivicarm/AppIventario/internal/config"
	"github.com/vivicarm/AppIventario/internal/docstore"
	"github.com/vivicarm/AppIventario/internal/docstore/memory"
	pgstore "github.com/vivicarm/AppIventario/internal/docstore/postgres"
	"github.com/vivicarm/AppIventario/internal/inventory"
	"github.com/vivicarm/AppIventario/internal/kv"
	"github.com/vivicarm/AppIventario/internal/profile"
)

func main() {
	cfg := config.Load()
	if err := validateAuthSecret(cfg.AuthSecret); err != nil {
		log.Fatalf("invalid security configuration: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var docs docstore.Store
	closers := make([]func() error, 0, 2)

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres unavailable (%v) and DATABASE_URL is set; refusing to start with in-memory fallback", err)
		}
		docs = pg
		closers = append(closers, pg.Close)
		log.Println("documents: postgres")
	} else {
		docs = memory.NewSeeded()
		log.Println("documents: in-memory (seeded)")
	}

	var slots kv.Store = kv.NewMemory()
	if cfg.RedisAddr != "" {
		redisStore := kv.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisStore.Ping(ctx); err != nil {
			log.Printf("redis unavailable (%v), cart will not survive restarts", err)
		} else {
			slots = redisStore
			closers = append(closers, redisStore.Close)
			log.Println("cart slot: redis")
		}
	} else {
		log.Println("cart slot: in-memory")
	}

	var blobs blobstore.Store = blobstore.NewMemory()
	if cfg.BlobDir != "" {
		dir, err := blobstore.NewDir(cfg.BlobDir)
		if err != nil {
			log.Fatalf("blob directory %s unusable: %v", cfg.BlobDir, err)
		}
		blobs = dir
		log.Printf("blobs: %s", cfg.BlobDir)
	} else {
		log.Println("blobs: in-memory")
	}

	authSvc := auth.New(docs, cfg.AuthSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)
	products := inventory.NewProductManager(docs, blobs)
	categories := inventory.NewCategoryManager(docs, blobs)

	if _, ok := authSvc.CurrentUser(); !ok {
		log.Println("no session; sign in through the app layer to load a profile")
	} else if u, err := profile.NewManager(docs, authSvc).Load(ctx); err == nil {
		log.Println(profile.Greeting(u))
	}

	carrito := cart.NewManager(cart.NewStore(slots, cfg.CartSlot))
	carrito.Restore(ctx)

	if err := products.Refresh(ctx); err != nil {
		log.Printf("initial product refresh failed: %v", err)
	}
	if err := categories.Refresh(ctx); err != nil {
		log.Printf("initial category refresh failed: %v", err)
	}

	summary := carrito.Summary()
	log.Printf("inventario core ready: %d productos, %d categorías, carrito %d artículos (S/ %.2f)",
		len(products.Products()), len(categories.Categories()), summary.TotalItems, summary.TotalPrice)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	carrito.Flush()
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("stopped")
}

func validateAuthSecret(secret string) error {
	if secret == "" {
		// Dev harness fallback; auth.New substitutes a dev secret.
		log.Println("WARNING: AUTH_SECRET unset, using dev secret")
		return nil
	}
	if len(secret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be at least 32 characters")
	}
	return nil
}
