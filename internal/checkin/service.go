// Package checkin implements the enrollment and recognition workflows on top
// of the store, the gallery and the model server client.
package checkin

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kozaktomas/face-checkin/internal/config"
	"github.com/kozaktomas/face-checkin/internal/gallery"
	"github.com/kozaktomas/face-checkin/internal/imaging"
	"github.com/kozaktomas/face-checkin/internal/match"
	"github.com/kozaktomas/face-checkin/internal/names"
	"github.com/kozaktomas/face-checkin/internal/store"
)

// TimeLayout is the check-in timestamp format. Existing clients parse this
// exact layout, so it must not change.
const TimeLayout = "15:04:05 - 02/01/2006"

// Extractor computes a face embedding for an image.
// A nil vector with a nil error means no usable face was found.
type Extractor interface {
	Embed(ctx context.Context, imageData []byte) ([]float32, error)
}

// MaskDetector classifies whether the face in an image wears a mask.
type MaskDetector interface {
	IsMasked(ctx context.Context, imageData []byte) (bool, error)
}

// Recognition is the outcome of a recognition attempt. Unknown faces are a
// normal outcome, not an error.
type Recognition struct {
	User   string `json:"user"`
	Match  bool   `json:"match"`
	Time   string `json:"time,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Service orchestrates enrollment and recognition.
type Service struct {
	store     store.Store
	cache     *gallery.Cache
	extractor Extractor
	masks     MaskDetector
	cfg       *config.Config

	// Serializes store writes and the cache rebuilds that follow them.
	// Reads are lock-free via gallery snapshots.
	writeMu sync.Mutex

	// now is replaceable in tests.
	now func() time.Time
}

// NewService creates a Service and loads the gallery from the store.
func NewService(cfg *config.Config, st store.Store, extractor Extractor, masks MaskDetector) (*Service, error) {
	s := &Service{
		store:     st,
		cache:     gallery.NewCache(),
		extractor: extractor,
		masks:     masks,
		cfg:       cfg,
		now:       time.Now,
	}
	if err := s.cache.Rebuild(context.Background(), st); err != nil {
		return nil, fmt.Errorf("loading gallery: %w", err)
	}
	log.Printf("checkin: gallery loaded with %d enrolled faces", s.cache.Snapshot().Len())
	return s, nil
}

// maskGate reports whether an image should be rejected as masked. The gate
// fails open: when the mask model is unavailable or errors, the image passes
// so that check-in keeps working without the classifier.
func (s *Service) maskGate(ctx context.Context, imageData []byte) bool {
	if !s.cfg.Mask.Enabled || s.masks == nil {
		return false
	}
	masked, err := s.masks.IsMasked(ctx, imageData)
	if err != nil {
		log.Printf("checkin: mask check failed, failing open: %v", err)
		return false
	}
	return masked
}

func (s *Service) shrink(imageData []byte) []byte {
	return imaging.Shrink(imageData, s.cfg.Imaging.MaxDimension)
}

// Register enrolls a named identity from one or more face images.
//
// Any masked image fails the whole request. Images without a detectable face
// are skipped; if none survive the request fails. The first surviving
// embedding is checked against the gallery: a hit below the duplicate
// threshold under a different name is a conflict. Re-registration under the
// same name appends the new samples to the existing ones.
func (s *Service) Register(ctx context.Context, name string, images [][]byte) error {
	if name == "" {
		return ErrEmptyName
	}

	var vectors [][]float32
	for i, img := range images {
		img = s.shrink(img)
		if s.maskGate(ctx, img) {
			return ErrMaskedFace
		}
		vec, err := s.extractor.Embed(ctx, img)
		if err != nil {
			// Best effort across the batch: one bad image does not abort it.
			log.Printf("checkin: embedding image %d for %q failed, skipping: %v", i, name, err)
			continue
		}
		if vec != nil {
			vectors = append(vectors, vec)
		}
	}
	if len(vectors) == 0 {
		return ErrNoFaceDetected
	}

	if nearest, ok := match.Nearest(s.cache.Snapshot(), vectors[0]); ok {
		log.Printf("checkin: register %q, nearest enrolled distance %.4f", name, nearest.Distance)
		if nearest.Distance < s.cfg.Matching.DuplicateThreshold && nearest.Name != name {
			return &DuplicateError{ExistingName: nearest.Name}
		}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	existing, err := s.store.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("loading existing samples for %q: %w", name, err)
	}
	if err := s.store.Put(ctx, name, append(existing, vectors...)); err != nil {
		return err
	}

	// The rebuild is synchronous: once Register returns, matches see the
	// new samples.
	return s.cache.Rebuild(ctx, s.store)
}

// Recognize matches a single face image against the gallery. A match below
// the recognition threshold appends a check-in record; anything else returns
// "Unknown" without touching the store.
func (s *Service) Recognize(ctx context.Context, imageData []byte) (Recognition, error) {
	imageData = s.shrink(imageData)
	if s.maskGate(ctx, imageData) {
		return Recognition{User: "Unknown", Detail: "please remove your mask"}, nil
	}

	vec, err := s.extractor.Embed(ctx, imageData)
	if err != nil {
		return Recognition{}, fmt.Errorf("embedding probe image: %w", err)
	}
	if vec == nil {
		return Recognition{User: "Unknown", Detail: "no face detected"}, nil
	}

	nearest, ok := match.Nearest(s.cache.Snapshot(), vec)
	if !ok {
		return Recognition{User: "Unknown"}, nil
	}

	log.Printf("checkin: probe nearest %q, distance %.4f (threshold %.2f)",
		nearest.Name, nearest.Distance, s.cfg.Matching.RecognitionThreshold)

	if nearest.Distance >= s.cfg.Matching.RecognitionThreshold {
		return Recognition{User: "Unknown"}, nil
	}

	timestamp := s.now().Format(TimeLayout)
	if err := s.store.Append(ctx, nearest.Name, timestamp); err != nil {
		return Recognition{}, fmt.Errorf("recording check-in for %q: %w", nearest.Name, err)
	}
	return Recognition{User: nearest.Name, Match: true, Time: timestamp}, nil
}

// CheckMask classifies a single image without any gating semantics.
// Unlike the gate inside registration/recognition this does not fail open;
// callers asked an explicit question and deserve the error.
func (s *Service) CheckMask(ctx context.Context, imageData []byte) (bool, error) {
	if !s.cfg.Mask.Enabled || s.masks == nil {
		return false, nil
	}
	return s.masks.IsMasked(ctx, s.shrink(imageData))
}

// History returns all check-in records, most recent first.
func (s *Service) History(ctx context.Context) ([]store.CheckInRecord, error) {
	return s.store.List(ctx)
}

// HistoryForName returns the check-in records whose name matches after
// normalization (case- and diacritics-insensitive), most recent first.
func (s *Service) HistoryForName(ctx context.Context, name string) ([]store.CheckInRecord, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]store.CheckInRecord, 0, len(records))
	for _, rec := range records {
		if names.Equal(rec.Name, name) {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

// Reset destroys all identities and history, then rebuilds the (now empty)
// gallery. Idempotent on an already empty store.
func (s *Service) Reset(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	return s.cache.Rebuild(ctx, s.store)
}

// Gallery exposes the cache snapshot, used by status reporting and tests.
func (s *Service) Gallery() *gallery.Snapshot {
	return s.cache.Snapshot()
}
