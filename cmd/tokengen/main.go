// Package main provides a CLI tool for generating bearer tokens for local
// storefront testing. Tokens are signed with TOKEN_SECRET, or the development
// secret when it is unset, and will NOT work against a production gateway.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	jwttoken "storefront/internal/jwt_token"
)

const (
	// devSecret matches config.go when ENVIRONMENT=development and TOKEN_SECRET is not set.
	devSecret = "dev-secret-key-change-in-production"

	defaultSubject  = "dev@example.com"
	defaultTokenTTL = 24 * time.Hour
)

type tokenOutput struct {
	Token     string            `json:"token"`
	Subject   string            `json:"subject"`
	ExpiresAt string            `json:"expires_at"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	issueCmd := flag.NewFlagSet("issue", flag.ExitOnError)
	subject := issueCmd.String("subject", defaultSubject, "Token subject (the user's email)")
	ttl := issueCmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	jsonOut := issueCmd.Bool("json", false, "Output as JSON")

	verifyCmd := flag.NewFlagSet("verify", flag.ExitOnError)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "issue":
		_ = issueCmd.Parse(os.Args[2:])
		issue(*subject, *ttl, *jsonOut)
	case "verify":
		_ = verifyCmd.Parse(os.Args[2:])
		if verifyCmd.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "usage: tokengen verify <token>")
			os.Exit(1)
		}
		verify(verifyCmd.Arg(0))
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - Generate bearer tokens for the storefront gateway

WARNING: Tokens are signed with TOKEN_SECRET or the development secret.
         Only use for local development and testing.

Usage:
  tokengen <command> [flags]

Commands:
  issue     Issue a token for a subject
  verify    Check a token against the secret and print its claims

Examples:
  tokengen issue -subject ada@example.com -ttl 1h
  tokengen issue -json
  tokengen verify eyJhbGciOiJIUzUxMiJ9...`)
}

func secret() []byte {
	if s := os.Getenv("TOKEN_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte(devSecret)
}

func issue(subject string, ttl time.Duration, jsonOutput bool) {
	tok, err := jwttoken.Issue(subject, ttl, secret(), time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(tokenOutput{
			Token:     tok.Signed,
			Subject:   tok.Subject,
			ExpiresAt: tok.ExpiresAt.Format(time.RFC3339),
			Usage: map[string]string{
				"header": "Authorization: Bearer <token>",
			},
		})
		return
	}

	fmt.Println("Bearer Token (HS512)")
	fmt.Println("====================")
	fmt.Printf("Subject:    %s\n", tok.Subject)
	fmt.Printf("Expires At: %s\n", tok.ExpiresAt.Format(time.RFC3339))
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(tok.Signed)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/user-service/users")
}

func verify(token string) {
	claims, err := jwttoken.Verify(token, secret(), time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Token rejected: %v\n", err)
		os.Exit(1)
	}
	printJSON(map[string]string{
		"sub": claims.Subject,
		"iat": claims.IssuedAt.Format(time.RFC3339),
		"exp": claims.ExpiresAt.Format(time.RFC3339),
	})
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
