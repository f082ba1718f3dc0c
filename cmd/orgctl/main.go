// Command orgctl provisions organizer accounts. Registration is out of
// band: there is no signup endpoint, an operator runs this tool against
// the same database the server uses.
//
//	orgctl -d postgres://... -u alice -n "Alice B" -e alice@example.com
//
// The password is read from the terminal without echo and stored as a
// salted PBKDF2 verifier, never as plaintext.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"

	"github.com/akozlov/activityhub/internal/common"
	"github.com/akozlov/activityhub/internal/dbx"
	"github.com/akozlov/activityhub/internal/server/auth"
	"github.com/akozlov/activityhub/internal/server/config"
	"github.com/akozlov/activityhub/internal/server/models"
	"github.com/akozlov/activityhub/internal/server/repositories/repomanager"
)

func main() {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	dsn := flag.String("d", cfg.DatabaseDSN, "database DSN")
	username := flag.String("u", "", "organizer username (required)")
	name := flag.String("n", "", "organizer display name")
	email := flag.String("e", "", "organizer email")
	flag.Parse()

	if *username == "" {
		flag.Usage()
		os.Exit(2)
	}

	password, err := readPassword()
	if err != nil {
		log.Fatalf("read password: %v", err)
	}

	if err := createOrganizer(context.Background(), *dsn, *username, *name, *email, password); err != nil {
		log.Fatalf("create organizer: %v", err)
	}

	fmt.Printf("organizer %q created\n", *username)
}

func readPassword() (string, error) {
	fmt.Print("Password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(first) == 0 {
		return "", fmt.Errorf("password must not be empty")
	}

	fmt.Print("Repeat password: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}

	return string(first), nil
}

func createOrganizer(ctx context.Context, dsn, username, name, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(ctx, db); err != nil {
		return err
	}

	// check-then-insert runs in one transaction so concurrent invocations
	// cannot race past the uniqueness check
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := manager.Organizers(tx)

		_, err := repo.GetByUsername(ctx, username)
		if err == nil {
			return fmt.Errorf("organizer %q already exists", username)
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		_, err = repo.Create(ctx, &models.Organizer{
			Username:     username,
			PasswordHash: hash,
			Name:         name,
			Email:        email,
		})
		return err
	})
}
