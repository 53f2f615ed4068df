// Package main is a development utility for generating a local admin login with
// its bcrypt hash pre-computed. It prints the raw password, the hash, and a
// ready-to-run SQL INSERT so developers can quickly seed a usable admin account
// in a local database without configuring the bootstrap admin environment
// variables. Do not use generated credentials in production.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Generate random bytes
	randomBytes := make([]byte, 18)
	_, err := rand.Read(randomBytes)
	if err != nil {
		log.Fatal(err)
	}

	// Encode to base64
	password := base64.RawURLEncoding.EncodeToString(randomBytes)

	// Hash with bcrypt
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("==========================================================")
	fmt.Println("Admin Credentials Generated")
	fmt.Println("==========================================================")
	fmt.Println("\nEmail: admin@dev.local")
	fmt.Printf("\nPassword: %s\n", password)
	fmt.Printf("\nHash: %s\n", string(hashBytes))
	fmt.Println("\n==========================================================")
	fmt.Println("SQL Insert:")
	fmt.Println("==========================================================")
	fmt.Printf(`
INSERT INTO admin_users (id, email, password_hash, name, role, created_at, updated_at)
VALUES (gen_random_uuid(), 'admin@dev.local', '%s', 'Administrator', 'admin', NOW(), NOW())
ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash;
`, string(hashBytes))
	fmt.Println("\n==========================================================")
}
