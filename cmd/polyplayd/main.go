// ABOUTME: Entry point for the polyplay engine daemon
// ABOUTME: Parses CLI flags, wires the engine, bridge, discovery and TUI
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/polyplay-audio/polyplay-go/internal/bridge"
	"github.com/polyplay-audio/polyplay-go/internal/discovery"
	"github.com/polyplay-audio/polyplay-go/internal/ui"
	"github.com/polyplay-audio/polyplay-go/pkg/audio/output"
	"github.com/polyplay-audio/polyplay-go/pkg/engine"
)

var (
	port       = flag.Int("port", 8930, "WebSocket bridge port")
	name       = flag.String("name", "", "Instance friendly name (default: hostname-polyplay)")
	backend    = flag.String("backend", "malgo", "Output backend: malgo, oto or null")
	sampleRate = flag.Int("sample-rate", 44100, "Device sample rate for the push backend")
	channels   = flag.Int("channels", 2, "Device channel count for the push backend")
	logFile    = flag.String("log-file", "polyplayd.log", "Log file path")
	noMDNS     = flag.Bool("no-mdns", false, "Disable mDNS advertisement")
	tui        = flag.Bool("tui", false, "Run the interactive console")
)

func main() {
	flag.Parse()

	// Set up logging (both file and console)
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()

	multiWriter := io.MultiWriter(os.Stdout, f)
	if *tui {
		// The console owns stdout while it runs
		multiWriter = io.MultiWriter(f)
	}
	log.SetOutput(multiWriter)

	instanceName := *name
	if instanceName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		instanceName = fmt.Sprintf("%s-polyplay", hostname)
	}

	be, err := newBackend(*backend)
	if err != nil {
		log.Fatalf("backend: %v", err)
	}

	log.Printf("Starting polyplayd: %s on port %d (backend: %s)", instanceName, *port, be.Name())
	log.Printf("Logging to: %s", *logFile)

	controller := engine.New(engine.Config{Backend: be})
	defer controller.Close()

	srv := bridge.New(bridge.Config{Port: *port}, controller)

	if !*noMDNS {
		mgr := discovery.NewManager(discovery.Config{
			InstanceName: instanceName,
			Port:         *port,
		})
		if err := mgr.Advertise(); err != nil {
			log.Printf("mDNS advertisement failed: %v", err)
		} else {
			defer mgr.Stop()
		}
	}

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received %v signal, shutting down gracefully...", sig)
		srv.Stop()
	}()

	if *tui {
		go func() {
			if err := srv.Start(); err != nil {
				log.Fatalf("Bridge error: %v", err)
			}
		}()

		p, err := ui.Run(controller)
		if err != nil {
			log.Fatalf("Console error: %v", err)
		}
		if _, err := p.Run(); err != nil {
			log.Fatalf("Console error: %v", err)
		}
		srv.Stop()
	} else {
		if err := srv.Start(); err != nil {
			log.Fatalf("Bridge error: %v", err)
		}
	}

	log.Printf("polyplayd stopped")
}

// newBackend builds the output backend named on the command line.
func newBackend(kind string) (output.Backend, error) {
	switch kind {
	case "malgo":
		return output.NewMalgo(*sampleRate, *channels), nil
	case "oto":
		return output.NewOto(*sampleRate, *channels), nil
	case "null":
		return output.NewNull(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want malgo, oto or null)", kind)
	}
}
