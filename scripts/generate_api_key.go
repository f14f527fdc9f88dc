package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
)

func main() {
	label := flag.String("label", "", "Human-readable client label (required)")
	flag.Parse()

	if *label == "" {
		fmt.Println("Error: -label is required")
		os.Exit(1)
	}

	key, hash := generateAPIKey()

	fmt.Println("═══════════════════════════════════════════════════")
	fmt.Println("API Key Generated")
	fmt.Println("═══════════════════════════════════════════════════")
	fmt.Printf("Label: %s\n", *label)
	fmt.Printf("\nAPI Key (show ONLY ONCE):\n%s\n", key)
	fmt.Printf("\nHash (store in database):\n%s\n", hash)
	fmt.Println("═══════════════════════════════════════════════════")
	fmt.Println("\nSave the API key now! You won't be able to see it again.")
	fmt.Println("\nTo insert into database:")
	fmt.Printf("INSERT INTO api_client (client_id, key_hash, label, is_active)\n")
	fmt.Printf("VALUES (gen_random_uuid(), '%s', '%s', true);\n", hash, *label)
	fmt.Println("═══════════════════════════════════════════════════")
}

// generateAPIKey generates a new mp_-prefixed API key and its storage hash.
func generateAPIKey() (key, hash string) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		panic(err)
	}
	randomStr := hex.EncodeToString(randomBytes)

	key = fmt.Sprintf("mp_%s", randomStr)

	hashBytes := sha256.Sum256([]byte(key))
	hash = hex.EncodeToString(hashBytes[:])

	return
}
