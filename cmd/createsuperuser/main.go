package main

import (
	"context"
	"flag"
	"log"
	"os"

	"recipebox/internal/config"
	"recipebox/internal/db"
	"recipebox/internal/model"
	"recipebox/internal/repository"
	"recipebox/internal/service"
)

// Provisions a superuser account against the configured database.
func main() {
	email := flag.String("email", "", "superuser email")
	password := flag.String("password", "", "superuser password (falls back to SUPERUSER_PASSWORD)")
	flag.Parse()

	if *password == "" {
		*password = os.Getenv("SUPERUSER_PASSWORD")
	}
	if *email == "" || *password == "" {
		log.Fatal("usage: createsuperuser -email <email> [-password <password>]")
	}

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	users := service.NewUserService(repository.NewUserRepository(gormDB))
	user, err := users.CreateSuperuser(context.Background(), *email, *password)
	if err != nil {
		log.Fatalf("Failed to create superuser: %v", err)
	}

	log.Printf("Superuser %s created (id=%d)", user.Email, user.ID)
}
