package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"scap-recorder/binary"
	"scap-recorder/database"
	"scap-recorder/events"
	"scap-recorder/platform"
	"scap-recorder/sigma"
	"scap-recorder/web"
)

func main() {
	dataDir := flag.String("data", "data", "directory for the event database and binary archive")
	listenAddr := flag.String("listen", ":8080", "web interface listen address")
	rulesDir := flag.String("rules", "rules", "directory of Sigma rule files")
	objPath := flag.String("bpf", "capture.bpf.o", "compiled capture object")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Attach the capture programs while still privileged
	source, err := platform.NewSource(platform.Config{ObjPath: *objPath})
	if err != nil {
		fmt.Printf("Capture disabled: %v\n", err)
		source = nil
	}

	// Everything below runs as the invoking user
	if err := dropPrivileges(); err != nil {
		fmt.Printf("Warning: Failed to drop privileges: %v\n", err)
	}

	db, err := database.NewDB(*dataDir)
	if err != nil {
		fmt.Printf("Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	detector, err := sigma.NewDetector(*rulesDir, db)
	if err != nil {
		fmt.Printf("Sigma detection disabled: %v\n", err)
		detector = nil
	} else {
		defer detector.Close()
		go detector.Run(ctx)
	}

	cache, err := binary.NewCache(1024, filepath.Join(*dataDir, "binaries"))
	if err != nil {
		fmt.Printf("Binary archiving disabled: %v\n", err)
		cache = nil
	}

	server := web.NewServer(db, detector, cache, *listenAddr)
	go func() {
		if err := server.Start(ctx); err != nil {
			fmt.Printf("Web server error: %v\n", err)
		}
	}()
	fmt.Printf("Web interface available at http://localhost%s\n", *listenAddr)

	if source != nil {
		defer source.Close()

		eventChan := make(chan *events.RawEvent, 1000) // Buffer size to handle bursts
		go startEventProcessor(ctx, eventChan, db, detector, cache)
		go startSourceReader(source, eventChan)

		fmt.Println("Event recording started... Press Ctrl+C to stop")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	fmt.Println("Shutting down...")
	cancel()
}
