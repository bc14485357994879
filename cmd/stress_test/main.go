package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/coffee-service/internal/adapter/messaging"
	"github.com/rl1809/coffee-service/internal/adapter/storage"
	"github.com/rl1809/coffee-service/internal/config"
	"github.com/rl1809/coffee-service/internal/core/service"
	"github.com/rl1809/coffee-service/internal/logging"
)

func main() {
	totalRequests := flag.Int("n", 50, "number of coffees to create, update and delete")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, flush, err := logging.Init(cfg.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer flush()

	db, err := storage.OpenDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	publisher, err := messaging.NewPublisher(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to connect broker: %v", err)
	}
	defer publisher.Close()

	coffeeService := service.NewCoffeeService(storage.NewCoffeeRepository(db), publisher, logger)

	start := time.Now()

	// Phase 1: concurrent creates
	ids := make([]string, *totalRequests)
	created := runConcurrently(*totalRequests, func(i int) error {
		dto, err := coffeeService.Create(ctx, service.CreateCoffeeRequest{
			Name:        fmt.Sprintf("Stress Blend %d", i),
			Description: "Load test coffee",
			Price:       decimal.NewFromFloat(3.5).Add(decimal.New(int64(i), -2)),
			Stock:       100,
		})
		if err != nil {
			return err
		}
		ids[i] = dto.ID
		return nil
	})

	// Phase 2: concurrent stock updates on the created coffees
	updated := runConcurrently(*totalRequests, func(i int) error {
		if ids[i] == "" {
			return fmt.Errorf("coffee %d was not created", i)
		}
		_, err := coffeeService.Update(ctx, ids[i], service.UpdateCoffeeRequest{
			Name:        fmt.Sprintf("Stress Blend %d", i),
			Description: "Load test coffee",
			Price:       decimal.NewFromFloat(4),
			Stock:       99,
		})
		return err
	})

	// Phase 3: concurrent deletes
	deleted := runConcurrently(*totalRequests, func(i int) error {
		if ids[i] == "" {
			return fmt.Errorf("coffee %d was not created", i)
		}
		ok, err := coffeeService.Delete(ctx, ids[i])
		if err == nil && !ok {
			return fmt.Errorf("coffee %s vanished before delete", ids[i])
		}
		return err
	})

	elapsed := time.Since(start)

	remaining := 0
	for _, id := range ids {
		if id == "" {
			continue
		}
		if dto, err := coffeeService.GetByID(ctx, id); err == nil && dto != nil {
			remaining++
		}
	}

	// Results
	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Requests per phase: %d\n", *totalRequests)
	fmt.Printf("Created:            %d\n", created)
	fmt.Printf("Updated:            %d\n", updated)
	fmt.Printf("Deleted:            %d\n", deleted)
	fmt.Printf("Remaining:          %d\n", remaining)
	fmt.Printf("Duration:           %v\n", elapsed)
	fmt.Println("==========================================")

	n := int32(*totalRequests)
	if created == n && updated == n && deleted == n && remaining == 0 {
		fmt.Println("PASS: every coffee was created, updated and deleted exactly once")
	} else {
		fmt.Printf("FAIL: expected %d/%d/%d with 0 remaining, got %d/%d/%d with %d remaining\n",
			n, n, n, created, updated, deleted, remaining)
	}
}

// runConcurrently runs fn for 0..n-1 in parallel and returns how many
// calls succeeded.
func runConcurrently(n int, fn func(i int) error) int32 {
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := fn(i); err != nil {
				log.Printf("request %d failed: %v", i, err)
				return
			}
			successCount.Add(1)
		}(i)
	}

	wg.Wait()
	return successCount.Load()
}
