package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"adgate/go-client/internal/composition/adserver"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	rpcAddr := flag.String("rpc-addr", "", "JSON-RPC listen address (default from config)")
	configPath := flag.String("config", "", "Path to config.yaml (optional)")
	rpcToken := flag.String("rpc-token", "", "RPC token for Authorization/X-Adgate-RPC-Token (optional)")
	flag.Parse()
	if *showVersion {
		fmt.Printf("adgated version=%s commit=%s build_date=%s\n", version, commit, buildDate)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if *rpcToken != "" {
		_ = os.Setenv("ADGATE_RPC_TOKEN", *rpcToken)
	}

	runtime, err := adserver.NewRPCServer(*rpcAddr, *configPath)
	if err != nil {
		log.Fatalf("adgated failed to initialize: %v", err)
	}
	defer runtime.Close()

	log.Println("adgated starting")
	if err := runtime.Server.Run(ctx); err != nil {
		log.Fatalf("adgated failed: %v", err)
	}
	log.Println("adgated stopped")
}
