package services

import (
	"context"
	"fmt"
	"net/url"

	"streamlay/internal/core/domain"
	"streamlay/internal/core/ports"

	"go.uber.org/zap"
)

// StreamSession wires the overlay and playback machinery for one
// selected stream and owns its teardown. The stream reference arrives
// percent-encoded from the routing shell; it is decoded once here and
// treated as opaque afterwards.
type StreamSession struct {
	Ref        domain.StreamRef
	Collection ports.OverlayCollection
	Drag       *DragEngine
	Edit       *EditSession
	Playback   *PlaybackController

	log *zap.SugaredLogger
}

// NewStreamSession decodes the stream reference, loads its overlays,
// and starts mirroring the sink. A load failure is non-fatal: the
// session starts with an empty collection and the error is surfaced.
func NewStreamSession(
	ctx context.Context,
	rawRef string,
	store ports.OverlayStore,
	sink ports.MediaSink,
	compressor ports.ImageCompressor,
	opts ports.CompressOptions,
	log *zap.SugaredLogger,
) (*StreamSession, error) {
	decoded, err := url.QueryUnescape(rawRef)
	if err != nil {
		return nil, fmt.Errorf("decode stream ref %q: %w", rawRef, err)
	}
	ref := domain.StreamRef(decoded)

	collection := NewCollectionManager(store, log)

	s := &StreamSession{
		Ref:        ref,
		Collection: collection,
		Drag:       NewDragEngine(collection, log),
		Edit:       NewEditSession(collection, compressor, opts, log),
		Playback:   NewPlaybackController(sink, log),
		log:        log,
	}

	if err := collection.Load(ctx, ref); err != nil {
		log.Warnw("starting session with empty collection", "stream_ref", ref, "error", err)
	}

	return s, nil
}

// Close tears the session down: any in-flight drag is invalidated so
// no commit can apply after unmount, the open edit session is
// discarded, and the sink subscription is released.
func (s *StreamSession) Close() {
	s.Drag.Cancel()
	s.Edit.Cancel()
	s.Playback.Close()
	s.log.Infow("stream session closed", "stream_ref", s.Ref)
}
