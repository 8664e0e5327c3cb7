// Command seed loads demo users and posts into the blog database. Intended
// for local development; refuses to write without --confirm.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var (
	dsn     = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	confirm = flag.Bool("confirm", false, "Required to perform writes")
)

type demoUser struct {
	username string
	password string
	posts    []demoPost
}

type demoPost struct {
	title   string
	content string
}

var demoUsers = []demoUser{
	{
		username: "alice",
		password: "password1",
		posts: []demoPost{
			{"First post", "Hello from alice."},
			{"Second thoughts", "Editing this later, probably."},
		},
	},
	{
		username: "bob",
		password: "password2",
		posts: []demoPost{
			{"Bob was here", "Short and sweet."},
		},
	},
}

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}
	if !*confirm {
		fatalf("refusing to write without --confirm")
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("open: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		fatalf("ping: %v", err)
	}

	for _, u := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			fatalf("hash: %v", err)
		}

		var userID int64
		err = db.QueryRowContext(ctx, `
			INSERT INTO app.users (username, password_hash, created_at)
			VALUES ($1, $2, now())
			ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
			RETURNING id`, u.username, string(hash)).Scan(&userID)
		if err != nil {
			fatalf("insert user %s: %v", u.username, err)
		}

		for _, p := range u.posts {
			_, err := db.ExecContext(ctx, `
				INSERT INTO app.blog_posts (title, content, author_id, created_at, updated_at)
				VALUES ($1, $2, $3, now(), now())`, p.title, p.content, userID)
			if err != nil {
				fatalf("insert post %q: %v", p.title, err)
			}
		}

		fmt.Printf("seeded %s with %d post(s)\n", u.username, len(u.posts))
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
