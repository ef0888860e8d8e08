package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/cartlyapp/cartly-server/internal/domain"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/cartly/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	listCount := 0
	completedLists := 0
	totalSpent := 0.0
	shown := 0

	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte("list:")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte("list:")); it.ValidForPrefix([]byte("list:")); it.Next() {
			item := it.Item()
			key := string(item.Key())

			// Skip index keys
			if strings.Contains(key, "idx:") {
				continue
			}

			err := item.Value(func(val []byte) error {
				var list domain.List
				if err := json.Unmarshal(val, &list); err != nil {
					return err
				}

				listCount++
				if list.Completed {
					completedLists++
					totalSpent += list.TotalSpent
				}

				if shown < 5 {
					shown++
					state := "open"
					if list.Completed {
						state = fmt.Sprintf("completed, spent %.2f", list.TotalSpent)
					}
					fmt.Printf("List: %s\n", list.Name)
					fmt.Printf("  ID: %s\n", list.ID)
					fmt.Printf("  Owner: %s\n", list.OwnerID)
					fmt.Printf("  State: %s\n", state)
					fmt.Println()
				}

				return nil
			})
			if err != nil {
				log.Printf("Error reading list %s: %v", key, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating database: %v", err)
	}

	itemCount := 0
	purchasedItems := 0

	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte("item:")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte("item:")); it.ValidForPrefix([]byte("item:")); it.Next() {
			key := string(it.Item().Key())
			if strings.Contains(key, "idx:") {
				continue
			}

			err := it.Item().Value(func(val []byte) error {
				var li domain.Item
				if err := json.Unmarshal(val, &li); err != nil {
					return err
				}
				itemCount++
				if li.Purchased {
					purchasedItems++
				}
				return nil
			})
			if err != nil {
				log.Printf("Error reading item %s: %v", key, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating database: %v", err)
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Total lists: %d\n", listCount)
	fmt.Printf("Completed lists: %d\n", completedLists)
	fmt.Printf("Total spent across completed lists: %.2f\n", totalSpent)
	fmt.Printf("Total items: %d\n", itemCount)
	fmt.Printf("Purchased items: %d\n", purchasedItems)
	if listCount > 0 {
		fmt.Printf("Average items per list: %.1f\n", float64(itemCount)/float64(listCount))
	}
}
