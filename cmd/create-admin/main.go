package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/crypto"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/database"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/domain"
)

// create-admin creates or promotes a console admin account. It talks to the
// database directly so it works even when every admin has locked themselves
// out.
func main() {
	var (
		databaseURL = flag.String("database", os.Getenv("DATABASE_URL"), "Postgres URL (or set DATABASE_URL env)")
		email       = flag.String("email", "", "Account email")
		username    = flag.String("username", "", "Username for a new account")
		password    = flag.String("password", "", "Password for a new account")
		promote     = flag.Bool("promote", false, "Promote an existing account instead of creating one")
	)
	flag.Parse()

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(handler))

	if *databaseURL == "" {
		log.Fatal("Postgres URL required (--database or DATABASE_URL env)")
	}
	if *email == "" {
		log.Fatal("--email is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, *databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	users := database.NewUserRepo(pool)

	if *promote {
		promoteExisting(ctx, users, *email)
		return
	}

	if *username == "" || *password == "" {
		log.Fatal("--username and --password are required to create an account")
	}
	if len(*password) < 8 {
		log.Fatal("password must be at least 8 characters")
	}

	hash, err := crypto.NewArgon2idHasher().Hash(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin, err := users.Create(ctx, domain.NewUser{
		Email:    *email,
		Username: *username,
		Role:     domain.RoleAdmin,
	}, hash)
	if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrDuplicateUsername) {
		log.Fatalf("Account already exists: %v (use --promote to change its role)", err)
	}
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	slog.Info("Admin account created", "email", admin.Email, "user_id", admin.ID)
}

func promoteExisting(ctx context.Context, users *database.UserRepo, email string) {
	user, err := users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		log.Fatalf("No account with email %s", email)
	}
	if err != nil {
		log.Fatalf("Lookup failed: %v", err)
	}

	if user.Role == domain.RoleAdmin {
		slog.Info("Account is already an admin", "email", email)
		return
	}

	promoted, err := users.SetRole(ctx, user.ID, domain.RoleAdmin)
	if err != nil {
		log.Fatalf("Failed to promote account: %v", err)
	}

	slog.Info("Account promoted to admin", "email", promoted.Email, "user_id", promoted.ID)
}
