package loader

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Nixie-Tech-LLC/phcfinder/internal/model"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/storage"
)

const (
	FacilitiesFile = "phcs.json"
	SettingsFile   = "settings.json"
	ClinicsFile    = "clinics_by_ward.json"

	DefaultTimeout = 15 * time.Second
)

// DataLoadFailure means one of the datasets could not be fetched or parsed.
// No snapshot is produced when it is returned.
type DataLoadFailure struct {
	Dataset string
	Err     error
}

func (e *DataLoadFailure) Error() string {
	return fmt.Sprintf("load %s: %v", e.Dataset, e.Err)
}

func (e *DataLoadFailure) Unwrap() error { return e.Err }

type Loader struct {
	store   storage.Storage
	timeout time.Duration
	now     func() time.Time
}

func New(store storage.Storage, timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Loader{store: store, timeout: timeout, now: time.Now}
}

// Load fetches the three datasets concurrently and returns a snapshot only
// if all of them were read and decoded.
func (l *Loader) Load(ctx context.Context) (*model.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var (
		rawFacilities, rawSettings, rawClinics []byte
		snap                                   = &model.Snapshot{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rawFacilities, err = l.fetch(gctx, FacilitiesFile, &snap.Facilities)
		return err
	})
	g.Go(func() (err error) {
		rawSettings, err = l.fetch(gctx, SettingsFile, &snap.Settings)
		return err
	})
	g.Go(func() (err error) {
		rawClinics, err = l.fetch(gctx, ClinicsFile, &snap.Clinics)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("source", l.store.String()).Msg("dataset load failed")
		return nil, err
	}

	if snap.Facilities == nil {
		snap.Facilities = []model.Facility{}
	}
	if snap.Clinics == nil {
		snap.Clinics = model.ClinicSchedule{}
	}
	snap.Version = version(rawFacilities, rawSettings, rawClinics)
	snap.LoadedAt = l.now()

	log.Info().
		Str("source", l.store.String()).
		Str("version", snap.Version).
		Int("facilities", len(snap.Facilities)).
		Int("wards_with_clinics", len(snap.Clinics)).
		Msg("datasets loaded")
	return snap, nil
}

func (l *Loader) fetch(ctx context.Context, name string, into any) ([]byte, error) {
	rc, err := l.store.Open(ctx, name)
	if err != nil {
		return nil, &DataLoadFailure{Dataset: name, Err: err}
	}
	defer rc.Close()

	raw, err := readAll(ctx, rc)
	if err != nil {
		return nil, &DataLoadFailure{Dataset: name, Err: err}
	}
	if err := decodeStrict(raw, into); err != nil {
		return nil, &DataLoadFailure{Dataset: name, Err: err}
	}
	log.Debug().Str("dataset", name).Int("bytes", len(raw)).Msg("dataset fetched")
	return raw, nil
}

// readAll stops early when ctx is done so a stalled body cannot block
// past the load timeout.
func readAll(ctx context.Context, r io.Reader) ([]byte, error) {
	type result struct {
		b   []byte
		err error
	}
	ch := make(chan result, 1)
	go func() {
		b, err := io.ReadAll(r)
		ch <- result{b, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.b, res.err
	}
}

func decodeStrict(raw []byte, into any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return errors.New("empty document")
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return errors.New("document is null")
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func version(docs ...[]byte) string {
	h := sha256.New()
	for _, d := range docs {
		h.Write(d)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:12]
}
