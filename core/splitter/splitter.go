package splitter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/apexwis/AudioSplitterFaaS/core/audio"
	"github.com/apexwis/AudioSplitterFaaS/logger"
	"github.com/apexwis/AudioSplitterFaaS/model"
	"github.com/apexwis/AudioSplitterFaaS/storage"
)

// SegmentCount is the number of segments produced per request.
const SegmentCount = 4

// URLExpiry is the validity window of the presigned retrieval URLs.
const URLExpiry = 900 * time.Second

// Result is the ordered outcome of one successful split.
type Result struct {
	Segments  []model.PublishedSegment
	ExpiresIn int // seconds
}

// Splitter drives the pipeline for one request:
// probe, plan, then extract and publish each segment.
type Splitter struct {
	extractor audio.Extractor
	store     storage.ObjectStore
	keyPrefix string
	workers   int
}

// New creates a Splitter. workers bounds the segment worker group; 1 gives
// strictly sequential extract-then-publish per segment, up to SegmentCount
// runs segments concurrently while the response stays ordered.
func New(extractor audio.Extractor, store storage.ObjectStore, keyPrefix string, workers int) *Splitter {
	if workers < 1 {
		workers = 1
	}
	if workers > SegmentCount {
		workers = SegmentCount
	}
	return &Splitter{
		extractor: extractor,
		store:     store,
		keyPrefix: keyPrefix,
		workers:   workers,
	}
}

// Split runs the pipeline end-to-end over a materialized source and returns
// the published segments in range order.
//
// The first extraction or publish failure cancels in-flight and not-yet-started
// sibling segments and fails the whole request. Segments published before the
// failure stay in the store; there is no compensating delete. The caller sees
// the failing stage's error and must treat already-stored objects as orphaned.
func (s *Splitter) Split(ctx context.Context, src *audio.Source) (*Result, error) {
	requestID := uuid.NewString()

	durationMs, err := s.extractor.Probe(ctx, src)
	if err != nil {
		logger.Error("probe failed",
			logger.String("request_id", requestID),
			logger.ErrorField(err))
		return nil, err
	}

	ranges := Plan(durationMs, SegmentCount)
	logger.Info("planned segments",
		logger.String("request_id", requestID),
		logger.Int64("duration_ms", durationMs),
		logger.Int("count", len(ranges)))

	published := make([]model.PublishedSegment, SegmentCount)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, r := range ranges {
		r := r
		g.Go(func() error {
			// A sibling failure cancels the group; not-yet-started segments
			// must not extract or publish.
			if err := gctx.Err(); err != nil {
				return err
			}

			payload, err := s.extractor.Extract(gctx, src, r)
			if err != nil {
				return err
			}

			key := MakeKey(s.keyPrefix, requestID, r.Index+1, extForContentType(payload.ContentType))
			if err := s.store.Upload(gctx, key, payload.Data, payload.ContentType); err != nil {
				return err
			}

			url, err := s.store.PresignGet(gctx, key, URLExpiry)
			if err != nil {
				return err
			}

			logger.Debug("segment published",
				logger.String("request_id", requestID),
				logger.String("key", key),
				logger.Int64("start_ms", r.StartMs),
				logger.Int64("end_ms", r.EndMs),
				logger.Int("bytes", len(payload.Data)))

			published[r.Index] = model.PublishedSegment{Key: key, URL: url}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("split failed",
			logger.String("request_id", requestID),
			logger.ErrorField(err))
		return nil, err
	}

	logger.Info("split completed",
		logger.String("request_id", requestID),
		logger.Int64("duration_ms", durationMs))

	return &Result{
		Segments:  published,
		ExpiresIn: int(URLExpiry / time.Second),
	}, nil
}
