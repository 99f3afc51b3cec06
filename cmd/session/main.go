// Demo viewer session: connects to a running overlay store, opens a
// stream session against a simulated media sink, and walks through a
// typical editing pass (compose, drag, nudge, playback controls).
package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"time"

	"streamlay/internal/core/ports"
	"streamlay/internal/core/services"
	"streamlay/internal/infrastructure/imaging"
	"streamlay/internal/infrastructure/media"
	"streamlay/internal/infrastructure/reliability"
	"streamlay/internal/infrastructure/storeclient"
	"streamlay/pkg/circuitbreaker"
	"streamlay/pkg/config"
	"streamlay/pkg/logger"
	"streamlay/pkg/retry"
	"streamlay/pkg/utils"
)

func main() {
	storeURL := flag.String("store", "", "overlay store base URL (overrides config)")
	streamRef := flag.String("stream", "rtsp://demo.streamlay.local/live", "stream reference to attach to")
	flag.Parse()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		cfg = config.DefaultConfig()
	}
	if *storeURL != "" {
		cfg.Store.BaseURL = *storeURL
	}

	zapLogger := logger.New(cfg.Logging.Level)
	defer zapLogger.Sync()
	log := zapLogger.Sugar()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := storeclient.NewClient(cfg.Store.BaseURL, cfg.Store.RequestTimeout, log)
	resilient := reliability.NewResilientStore(client, retry.StoreConfig(), circuitbreaker.StoreConfig(), log)
	store := storeclient.NewCachedStore(resilient, 5*time.Second)
	defer store.Stop()

	compressor := imaging.NewCompressor(log)

	sink := media.NewSimulatedSink()
	defer sink.Close()

	session, err := services.NewStreamSession(
		ctx,
		url.QueryEscape(*streamRef),
		store,
		sink,
		compressor,
		ports.CompressOptions{
			MaxSizeMB:        cfg.Imaging.MaxSizeMB,
			MaxWidthOrHeight: cfg.Imaging.MaxWidthOrHeight,
		},
		log,
	)
	if err != nil {
		log.Fatalw("failed to open stream session", "error", err)
	}
	defer session.Close()

	log.Infow("session open",
		"session_id", utils.GenerateSessionID(),
		"stream_ref", session.Ref,
		"overlays", len(session.Collection.Overlays()),
	)

	// Media arrives; the controller attempts autoplay on its own.
	sink.LoadMedia(300)
	time.Sleep(500 * time.Millisecond)

	// Compose a text overlay and push it to the store.
	if err := session.Edit.Compose(session.Ref); err != nil {
		log.Fatalw("compose failed", "error", err)
	}
	if err := session.Edit.SetText("LIVE"); err != nil {
		log.Fatalw("set text failed", "error", err)
	}
	created, err := session.Edit.Commit(ctx)
	if err != nil {
		log.Fatalw("commit failed", "error", err)
	}
	log.Infow("overlay created", "id", created.ID, "position", created.Position)

	// Drag it toward the top-left corner.
	vp := services.Viewport{Left: 0, Top: 0, Width: 1280, Height: 720}
	if err := session.Drag.Start(created.ID); err != nil {
		log.Fatalw("drag start failed", "error", err)
	}
	if err := session.Drag.Move(128, 72, vp); err != nil {
		log.Fatalw("drag move failed", "error", err)
	}
	moved, err := session.Drag.Drop(ctx)
	if err != nil {
		log.Fatalw("drag drop failed", "error", err)
	}
	log.Infow("overlay moved", "id", moved.ID, "position", moved.Position)

	// Fine-tune with the keyboard path.
	if err := session.Edit.Open(moved.ID); err != nil {
		log.Fatalw("edit open failed", "error", err)
	}
	if err := session.Edit.Nudge(services.NudgeRight); err != nil {
		log.Fatalw("nudge failed", "error", err)
	}
	nudged, err := session.Edit.Commit(ctx)
	if err != nil {
		log.Fatalw("nudge commit failed", "error", err)
	}
	log.Infow("overlay nudged", "id", nudged.ID, "position", nudged.Position)

	// Playback controls.
	session.Playback.Seek(42)
	if err := session.Playback.SetRate(1.5); err != nil {
		log.Fatalw("set rate failed", "error", err)
	}
	time.Sleep(time.Second)

	state := session.Playback.State()
	fmt.Printf("playback: %s / %s (playing=%v rate=%.2g)\n",
		utils.FormatPlaybackClock(state.CurrentTime),
		utils.FormatPlaybackClock(state.Duration),
		state.IsPlaying,
		state.Rate,
	)

	// Clean up the demo overlay.
	if err := session.Collection.Remove(ctx, nudged.ID); err != nil {
		log.Warnw("remove failed", "id", nudged.ID, "error", err)
	}
	log.Infow("session demo complete", "stream_ref", session.Ref)
}
