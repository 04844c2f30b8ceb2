// Command goal-tracker runs the two-tally goal face against GPIO buttons and
// accelerometer tap lines, persisting tallies and publishing face events to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/goal-tracker/internal/config"
	"github.com/sweeney/goal-tracker/internal/display"
	"github.com/sweeney/goal-tracker/internal/gpio"
	"github.com/sweeney/goal-tracker/internal/host"
	"github.com/sweeney/goal-tracker/internal/logic"
	"github.com/sweeney/goal-tracker/internal/mqtt"
	"github.com/sweeney/goal-tracker/internal/status"
	"github.com/sweeney/goal-tracker/internal/store"
	"github.com/sweeney/goal-tracker/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	flag.DurationVar(&cfg.Poll, "poll", cfg.Poll, "GPIO polling interval")
	flag.DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "Button debounce duration")
	flag.StringVar(&cfg.Broker, "broker", cfg.Broker, "MQTT broker address")
	flag.DurationVar(&cfg.Heartbeat, "heartbeat", cfg.Heartbeat, "Heartbeat interval (0 to disable)")
	flag.StringVar(&cfg.Chip, "chip", cfg.Chip, "GPIO character device")
	flag.IntVar(&cfg.PinA, "pin-a", cfg.PinA, "BCM pin number for button A")
	flag.IntVar(&cfg.PinB, "pin-b", cfg.PinB, "BCM pin number for button B")
	flag.IntVar(&cfg.PinMode, "pin-mode", cfg.PinMode, "BCM pin number for the mode button")
	flag.StringVar(&cfg.Store, "store", cfg.Store, "Slot storage: sqlite, backup or memory")
	flag.StringVar(&cfg.StorePath, "store-path", cfg.StorePath, "Slot storage file")
	flag.StringVar(&cfg.Display, "display", cfg.Display, "Display: log, term or none")
	flag.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "HTTP status address (empty to disable)")
	flag.StringVar(&cfg.NetworkFile, "network-file", cfg.NetworkFile, "pi-helper env file to watch (empty to disable)")
	printState := flag.Bool("print-state", false, "Print stored tallies and goals and exit")

	flag.Parse()

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config, printState bool) error {
	faceCfg, err := cfg.Face.Logic()
	if err != nil {
		return err
	}

	backend, err := store.Open(cfg.Store, cfg.StorePath)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer backend.Close()

	// Print state mode
	if printState {
		return printSlots(os.Stdout, backend)
	}

	gpioReader, err := gpio.NewRealReader(cfg.Chip, cfg.Pins())
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer gpioReader.Close()

	disp, err := display.New(cfg.Display)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}

	publisher, err := mqtt.NewRealPublisher(cfg.Broker, cfg.ClientID)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	face := logic.NewFace(faceCfg, store.NewSlots(backend), host.WallCalendar(time.Now))

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), cfg.Status())
	tracker.SetNetwork(cfg.Network.Info())
	if cfg.NetworkFile != "" {
		if net, err := config.ReadNetworkFile(cfg.NetworkFile); err == nil && net != nil {
			tracker.SetNetwork(net)
		}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := config.WatchNetworkFile(ctx, cfg.NetworkFile, tracker.SetNetwork); err != nil {
			log.Printf("network file not watched: %v", err)
		}
	}
	tracker.SetMQTTConnected(publisher.IsConnected())

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	log.Printf("started: poll=%v debounce=%v broker=%s heartbeat=%v store=%s display=%s",
		cfg.Poll, cfg.Debounce, cfg.Broker, cfg.Heartbeat, cfg.Store, cfg.Display)

	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	loop := loopConfig{debounce: cfg.Debounce, poll: cfg.Poll, heartbeat: cfg.Heartbeat}
	return runLoop(gpioReader, face, disp, publisher, publisher, tracker, loop, time.Now, ticker.C, sigCh)
}

// loopConfig holds the timing settings of runLoop.
type loopConfig struct {
	debounce  time.Duration
	poll      time.Duration
	heartbeat time.Duration
}

func runLoop(gpioReader gpio.Reader, face *logic.Face, disp display.Display, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, loop loopConfig, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	h := host.New(face, loop.debounce, loop.poll, startTime)
	lastHeartbeat := startTime

	out := h.Activate()
	show(disp, out.Render, startTime)
	publishEvents(publisher, tracker, out.Events, startTime)

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			h.Resign()

			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			sample, err := gpioReader.Read()
			if err != nil {
				log.Printf("gpio read error: %v", err)
				continue
			}

			out := h.Step(sample, t)
			if out.Left {
				log.Printf("face left: resigned and re-activated")
			}
			show(disp, out.Render, t)
			publishEvents(publisher, tracker, out.Events, t)

			// Update status tracker for HTTP consumers
			if tracker != nil {
				tracker.Update(h.Face().State(), out.Render, h.IsReady())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			if !h.IsReady() || loop.heartbeat <= 0 || t.Sub(lastHeartbeat) < loop.heartbeat {
				continue
			}
			lastHeartbeat = t

			st := h.Face().State()
			log.Printf("heartbeat: uptime=%v a=%d/%d b=%d/%d mode=%s",
				t.Sub(startTime).Truncate(time.Second), st.Tallies[0].Value, st.Goals[0].Value,
				st.Tallies[1].Value, st.Goals[1].Value, st.Mode)

			hbEvent := mqtt.SystemEvent{
				Timestamp: t,
				Event:     "HEARTBEAT",
			}
			if tracker != nil {
				hbEvent.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", "")
			}
			if err := publisher.PublishSystem(hbEvent); err != nil {
				log.Printf("heartbeat publish error: %v", err)
			}
		}
	}
}

func show(disp display.Display, r logic.Render, t time.Time) {
	if err := disp.Show(r, t); err != nil {
		log.Printf("display error: %v", err)
	}
}

func publishEvents(publisher mqtt.Publisher, tracker *status.Tracker, events []logic.Event, t time.Time) {
	if tracker != nil {
		tracker.Record(events)
	}
	for _, event := range events {
		log.Printf("event: %s control=%s value=%d gesture=%s mode=%s",
			event.Type, event.Control, event.Value, event.Gesture, event.Mode)
		if err := publisher.Publish(event, t); err != nil {
			log.Printf("publish error: %v", err)
			// Don't crash on publish failure
		}
	}
}

// printSlots writes the raw stored slot values, one per line.
func printSlots(w io.Writer, backend store.Backend) error {
	values, err := store.Values(backend)
	if err != nil {
		return fmt.Errorf("read slots: %w", err)
	}
	for i, v := range values {
		slot := logic.Slot(i)
		if v == store.Erased {
			fmt.Fprintf(w, "%s: erased\n", slot)
			continue
		}
		fmt.Fprintf(w, "%s: %d\n", slot, v)
	}
	return nil
}
