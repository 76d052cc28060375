//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

type StationPrefetchEvent struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	RadiusKm float64 `json:"radius_km"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	lat := flag.Float64("lat", 28.6139, "latitude")
	lon := flag.Float64("lon", 77.2090, "longitude")
	radius := flag.Float64("radius", 5, "radius in km")
	watch := flag.Bool("watch", false, "print stream:payment:done events for 30s after publishing")
	flag.Parse()

	client := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	data, err := json.Marshal(StationPrefetchEvent{Lat: *lat, Lon: *lon, RadiusKm: *radius})
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:stations:prefetch",
		Values: map[string]interface{}{"data": string(data)},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published: stream=stream:stations:prefetch id=%s area=%.4f,%.4f r=%.1fkm\n", id, *lat, *lon, *radius)

	if !*watch {
		return
	}

	fmt.Println("Watching stream:payment:done ...")
	lastID := "$"
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		results, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{"stream:payment:done", lastID},
			Count:   10,
			Block:   time.Second,
		}).Result()
		if err != nil {
			continue
		}
		for _, stream := range results {
			for _, msg := range stream.Messages {
				lastID = msg.ID
				fmt.Printf("%s %v\n", msg.ID, msg.Values["data"])
			}
		}
	}
}
