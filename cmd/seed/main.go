// Package main implements a standalone seed script that populates a running
// shopping app backend with realistic test data over its HTTP API: a handful
// of accounts, marketplace listings, and reviews.
//
// Run: go run ./cmd/seed
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func httpPost(url, token string, body any) (map[string]any, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var result map[string]any
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return result, nil
}

func dataField(result map[string]any, key string) string {
	data, ok := result["data"].(map[string]any)
	if !ok {
		return ""
	}
	v, _ := data[key].(string)
	return v
}

type seedUser struct {
	firstName string
	lastName  string
	email     string
	token     string
}

type seedListing struct {
	title       string
	description string
	price       float64
	location    string
}

var users = []seedUser{
	{firstName: "Ana", lastName: "Horvat", email: "ana@example.com"},
	{firstName: "Ivan", lastName: "Kovac", email: "ivan@example.com"},
	{firstName: "Marta", lastName: "Babic", email: "marta@example.com"},
	{firstName: "Luka", lastName: "Juric", email: "luka@example.com"},
}

var listings = []seedListing{
	{title: "Old bicycle", description: "Ridden but reliable city bike.", price: 120, location: "Zagreb"},
	{title: "Desk lamp", description: "Warm light, adjustable arm.", price: 15, location: "Split"},
	{title: "Acoustic guitar", description: "Beginner guitar with soft case.", price: 80, location: "Rijeka"},
	{title: "Bookshelf", description: "Solid pine, five shelves.", price: 45, location: "Osijek"},
	{title: "Espresso maker", description: "Stovetop, six cups.", price: 25, location: "Zagreb"},
	{title: "Winter tires", description: "Set of four, one season used.", price: 200, location: "Zadar"},
}

var reviewBodies = []string{
	"Exactly as described, smooth handover.",
	"Good value, minor scratches.",
	"Seller was responsive and honest.",
	"Works fine, would buy again.",
}

func main() {
	baseURL := getEnv("SEED_BASE_URL", "http://localhost:8080")
	password := getEnv("SEED_PASSWORD", "seed-password")
	rng := rand.New(rand.NewSource(42))

	log.Printf("seeding %s", baseURL)

	// Register and log in every account.
	for i := range users {
		u := &users[i]
		if _, err := httpPost(baseURL+"/api/v1/auth/register", "", map[string]any{
			"first_name": u.firstName,
			"last_name":  u.lastName,
			"email":      u.email,
			"password":   password,
		}); err != nil {
			log.Printf("register %s: %v (may already exist)", u.email, err)
		}

		result, err := httpPost(baseURL+"/api/v1/auth/login", "", map[string]any{
			"email":    u.email,
			"password": password,
		})
		if err != nil {
			log.Fatalf("login %s: %v", u.email, err)
		}
		u.token = dataField(result, "token")
		log.Printf("logged in %s", u.email)
	}

	// Create listings round-robin across sellers, then have the other
	// accounts review some of them.
	var productIDs []string
	for i, l := range listings {
		seller := users[i%len(users)]
		result, err := httpPost(baseURL+"/api/v1/products", seller.token, map[string]any{
			"title":       l.title,
			"description": l.description,
			"price":       l.price,
			"location":    l.location,
		})
		if err != nil {
			log.Fatalf("create product %q: %v", l.title, err)
		}
		id := dataField(result, "id")
		productIDs = append(productIDs, id)
		log.Printf("created product %q (%s)", l.title, id)
	}

	reviews := 0
	for i, productID := range productIDs {
		seller := i % len(users)
		for j, u := range users {
			if j == seller || rng.Intn(2) == 0 {
				continue
			}
			body := reviewBodies[rng.Intn(len(reviewBodies))]
			rating := 3 + rng.Intn(3)
			if _, err := httpPost(baseURL+"/api/v1/products/"+productID+"/reviews", u.token, map[string]any{
				"body":   body,
				"rating": rating,
			}); err != nil {
				log.Fatalf("create review on %s: %v", productID, err)
			}
			reviews++
		}
	}

	log.Printf("seed complete: %d users, %d products, %d reviews", len(users), len(productIDs), reviews)
}
