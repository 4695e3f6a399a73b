package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/frontandrew/movierental/internal/pkg/redis"
)

func main() {
	fmt.Println("=========================================")
	fmt.Println("Redis Rental Lock Check")
	fmt.Println("=========================================")
	fmt.Println()

	// Создаем Redis клиент
	client, err := redis.NewClient(redis.Config{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	if err != nil {
		fmt.Printf("❌ Failed to connect to Redis: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	fmt.Println("✅ Connected to Redis")
	fmt.Println()

	ctx := context.Background()
	locker := redis.NewLocker(client, 5*time.Second)

	// Check 1: захват блокировки
	fmt.Println("Check 1: LOCK user + movie")
	unlock, err := locker.Lock(ctx, "user:check", "movie:check")
	if err != nil {
		fmt.Printf("❌ LOCK failed: %v\n", err)
		os.Exit(1)
	}

	owner, err := client.Get(ctx, "mrs:lock:movie:check")
	if err != nil {
		fmt.Printf("❌ GET lock key failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Lock held by token %s\n", owner)
	fmt.Println()

	// Check 2: повторный захват должен ждать до таймаута
	fmt.Println("Check 2: second LOCK times out")
	waitCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	_, err = locker.Lock(waitCtx, "movie:check")
	cancel()
	if err == nil {
		fmt.Println("❌ Second lock must not be granted while the first is held")
		os.Exit(1)
	}
	fmt.Printf("✅ Second lock rejected: %v\n", err)
	fmt.Println()

	// Check 3: после освобождения ключ снова доступен
	fmt.Println("Check 3: UNLOCK and LOCK again")
	unlock()

	again, err := locker.Lock(ctx, "movie:check")
	if err != nil {
		fmt.Printf("❌ LOCK after release failed: %v\n", err)
		os.Exit(1)
	}
	again()
	fmt.Println("✅ Lock released and reacquired")
	fmt.Println()

	fmt.Println("=========================================")
	fmt.Println("✅ Redis rental lock works!")
	fmt.Println("=========================================")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
