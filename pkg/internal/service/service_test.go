package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ridgeline/mediavault/pkg/configs"
	"github.com/ridgeline/mediavault/pkg/internal/binstore"
	"github.com/ridgeline/mediavault/pkg/internal/model"
	"github.com/ridgeline/mediavault/pkg/internal/types"
)

// fakeStore is an in-memory MetadataStore.
type fakeStore struct {
	records    map[string]*model.AssetRecord
	inserted   []string
	attempts   int
	failInsert map[int]error // 0-based insert attempt -> error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]*model.AssetRecord{}}
}

func (f *fakeStore) Insert(_ context.Context, rec *model.AssetRecord) (string, error) {
	idx := f.attempts
	f.attempts++

	if err, ok := f.failInsert[idx]; ok {
		return "", err
	}

	rec.ID = primitive.NewObjectID()
	cp := *rec
	f.records[rec.ID.Hex()] = &cp
	f.inserted = append(f.inserted, rec.ID.Hex())

	return rec.ID.Hex(), nil
}

func (f *fakeStore) FindByID(_ context.Context, id string) (*model.AssetRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, ErrNotFound
	}

	cp := *rec

	return &cp, nil
}

func (f *fakeStore) List(_ context.Context, _ types.ListQuery) ([]model.AssetRecord, int64, error) {
	out := make([]model.AssetRecord, 0, len(f.records))
	for _, rec := range f.records {
		out = append(out, *rec)
	}

	return out, int64(len(out)), nil
}

func (f *fakeStore) UpdateByID(_ context.Context, id string, patch model.AssetPatch) (*model.AssetRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, ErrNotFound
	}

	if patch.Alt != nil {
		rec.Alt = *patch.Alt
	}

	if patch.IsActive != nil {
		rec.IsActive = *patch.IsActive
	}

	cp := *rec

	return &cp, nil
}

func (f *fakeStore) DeleteByID(_ context.Context, id string) error {
	if _, ok := f.records[id]; !ok {
		return ErrNotFound
	}

	delete(f.records, id)

	return nil
}

func (f *fakeStore) DistinctLocators(_ context.Context) (map[string]struct{}, error) {
	out := map[string]struct{}{}
	for _, rec := range f.records {
		out[rec.URL] = struct{}{}
		if rec.RemoteID != "" {
			out[rec.RemoteID] = struct{}{}
		}
	}

	return out, nil
}

// fakeBin is an in-memory binstore.Store.
type fakeBin struct {
	puts      int
	removed   []binstore.Locator
	putErr    error
	removeErr error
}

func (f *fakeBin) Put(_ context.Context, data []byte, opts binstore.PutOptions) (*binstore.Object, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}

	f.puts++

	return &binstore.Object{
		URL:    fmt.Sprintf("/static/fake/%d.%s", f.puts, opts.Format),
		Format: opts.Format,
		Bytes:  int64(len(data)),
	}, nil
}

func (f *fakeBin) Remove(_ context.Context, loc binstore.Locator) error {
	if f.removeErr != nil {
		return f.removeErr
	}

	f.removed = append(f.removed, loc)

	return nil
}

func testMediaConfig() configs.MediaConfig {
	return configs.MediaConfig{
		Backend:      configs.BackendLocal,
		MaxUploadMB:  5,
		MaxBatchMB:   10,
		MaxWidth:     1920,
		MaxHeight:    1920,
		PublicPrefix: "/static",
		ScanMaxDepth: 6,
		ThumbWidth:   320,
	}
}

func makeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 16 {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}

	return buf.Bytes()
}

func TestIngestPartialFailure(t *testing.T) {
	store := newFakeStore()
	bin := &fakeBin{}
	svc := NewMediaService(store, bin, nil, nil, testMediaConfig())

	files := []types.IngestFile{
		{Name: "a.jpg", Data: makeJPEG(t, 100, 80)},
		{Name: "b.txt", Data: []byte("not an image at all, just text")},
		{Name: "c.jpg", Data: makeJPEG(t, 60, 40)},
	}

	results := svc.Ingest(context.Background(), files, types.IngestMeta{Type: "gallery"}, 5<<20)

	if len(results) != 3 {
		t.Fatalf("want 3 results, got %d", len(results))
	}

	if !results[0].OK || !results[2].OK {
		t.Fatalf("expected first and third to succeed: %+v", results)
	}

	if results[1].OK || results[1].Code != types.IngestValidation {
		t.Fatalf("expected validation failure at index 1, got %+v", results[1])
	}

	if len(store.inserted) != 2 {
		t.Fatalf("want 2 inserted records, got %d", len(store.inserted))
	}
}

func TestIngestRejectsBeforeStorage(t *testing.T) {
	store := newFakeStore()
	bin := &fakeBin{}
	svc := NewMediaService(store, bin, nil, nil, testMediaConfig())

	files := []types.IngestFile{
		{Name: "evil.exe", Data: []byte{0x4d, 0x5a, 0x90, 0x00, 0x03}},
	}

	results := svc.Ingest(context.Background(), files, types.IngestMeta{Type: "gallery"}, 5<<20)

	if results[0].OK {
		t.Fatal("expected rejection")
	}

	if bin.puts != 0 {
		t.Fatalf("binary store touched %d times for rejected file", bin.puts)
	}

	if len(store.inserted) != 0 {
		t.Fatal("metadata store touched for rejected file")
	}
}

func TestIngestSizeLimit(t *testing.T) {
	store := newFakeStore()
	svc := NewMediaService(store, &fakeBin{}, nil, nil, testMediaConfig())

	data := makeJPEG(t, 200, 200)
	results := svc.Ingest(context.Background(), []types.IngestFile{{Name: "big.jpg", Data: data}},
		types.IngestMeta{Type: "gallery"}, int64(len(data))-1)

	if results[0].OK || results[0].Code != types.IngestValidation {
		t.Fatalf("expected validation failure for oversize file, got %+v", results[0])
	}
}

func TestIngestRecordFields(t *testing.T) {
	store := newFakeStore()
	svc := NewMediaService(store, &fakeBin{}, nil, nil, testMediaConfig())

	meta := types.IngestMeta{Type: "hero", Section: "home", Tags: []string{"roof"}, Alt: "alt text"}
	results := svc.Ingest(context.Background(),
		[]types.IngestFile{{Name: "a.jpg", Data: makeJPEG(t, 100, 80)}}, meta, 5<<20)

	rec := results[0].Record
	if rec == nil {
		t.Fatal("no record on success")
	}

	if rec.Type != "hero" || rec.Section != "home" || rec.Alt != "alt text" {
		t.Fatalf("meta not carried onto record: %+v", rec)
	}

	if rec.Width != 100 || rec.Height != 80 {
		t.Fatalf("want 100x80, got %dx%d", rec.Width, rec.Height)
	}

	if !rec.IsActive {
		t.Fatal("new records must be active")
	}

	if rec.Hash == "" {
		t.Fatal("hash not set")
	}
}

func writeScanTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "services"), 0o755); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{"hero.jpg", filepath.Join("services", "roof.jpg")} {
		if err := os.WriteFile(filepath.Join(root, p), makeJPEG(t, 64, 48), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	// non-image files are ignored
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("skip me"), 0o644); err != nil {
		t.Fatal(err)
	}

	return root
}

func TestScanIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := NewMediaService(store, &fakeBin{}, nil, nil, testMediaConfig())
	root := writeScanTree(t)

	first, err := svc.Scan(context.Background(), ScanOptions{Directories: []string{root}})
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}

	if first.CreatedCount != 2 || first.ExistingCount != 0 {
		t.Fatalf("first run: want 2 created, got %+v", first)
	}

	second, err := svc.Scan(context.Background(), ScanOptions{Directories: []string{root}})
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}

	if second.CreatedCount != 0 || second.ExistingCount != 2 {
		t.Fatalf("second run not idempotent: %+v", second)
	}

	if len(store.inserted) != 2 {
		t.Fatalf("want 2 records total, got %d", len(store.inserted))
	}
}

func TestScanSectionFromPath(t *testing.T) {
	store := newFakeStore()
	svc := NewMediaService(store, &fakeBin{}, nil, nil, testMediaConfig())
	root := writeScanTree(t)

	if _, err := svc.Scan(context.Background(), ScanOptions{Directories: []string{root}}); err != nil {
		t.Fatal(err)
	}

	var found bool
	for _, rec := range store.records {
		if rec.Section == "services" {
			found = true

			if rec.URL != "/static/services/roof.jpg" {
				t.Fatalf("unexpected canonical url %q", rec.URL)
			}
		}
	}

	if !found {
		t.Fatal("no record with section inferred from path")
	}
}

func TestScanMissingDirectory(t *testing.T) {
	svc := NewMediaService(newFakeStore(), &fakeBin{}, nil, nil, testMediaConfig())

	if _, err := svc.Scan(context.Background(), ScanOptions{Directories: []string{"/no/such/dir"}}); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestScanToleratesBadFile(t *testing.T) {
	store := newFakeStore()
	svc := NewMediaService(store, &fakeBin{}, nil, nil, testMediaConfig())
	root := writeScanTree(t)

	// image extension but garbage content
	if err := os.WriteFile(filepath.Join(root, "broken.jpg"), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	outcome, err := svc.Scan(context.Background(), ScanOptions{Directories: []string{root}})
	if err != nil {
		t.Fatal(err)
	}

	if outcome.ErrorCount != 1 || outcome.CreatedCount != 2 {
		t.Fatalf("want 1 error and 2 created, got %+v", outcome)
	}
}

func TestScanToleratesUnreadableSubdir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	store := newFakeStore()
	svc := NewMediaService(store, &fakeBin{}, nil, nil, testMediaConfig())
	root := writeScanTree(t)

	locked := filepath.Join(root, "locked")
	if err := os.MkdirAll(locked, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(locked, "hidden.jpg"), makeJPEG(t, 32, 32), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	outcome, err := svc.Scan(context.Background(), ScanOptions{Directories: []string{root}})
	if err != nil {
		t.Fatalf("scan aborted on unreadable subdirectory: %v", err)
	}

	if outcome.CreatedCount != 2 {
		t.Fatalf("want the readable files registered, got %+v", outcome)
	}

	var recorded bool
	for _, d := range outcome.Details {
		if d.Status == types.ScanError && d.Path == locked {
			recorded = true
		}
	}

	if !recorded {
		t.Fatalf("unreadable directory not recorded in outcome: %+v", outcome.Details)
	}
}

func TestCheckPaths(t *testing.T) {
	svc := NewMediaService(newFakeStore(), &fakeBin{}, nil, nil, testMediaConfig())
	root := t.TempDir()

	got := svc.CheckPaths([]string{root, "/no/such/dir"})

	if !got[root] || got["/no/such/dir"] {
		t.Fatalf("unexpected report %+v", got)
	}
}

func TestCommitPickedPartialFailure(t *testing.T) {
	store := newFakeStore()
	store.failInsert = map[int]error{1: errors.New("duplicate key")}

	cfg := testMediaConfig()
	cfg.PickerDelayMS = 0
	svc := NewMediaService(store, &fakeBin{}, nil, nil, cfg)

	req := types.PickerRequest{
		Meta: types.IngestMeta{Type: "gallery"},
		Assets: []types.PickedAsset{
			{RemoteID: "roofing/a", URL: "http://host/a.jpg"},
			{RemoteID: "roofing/b", URL: "http://host/b.jpg"},
			{RemoteID: "roofing/c", URL: "http://host/c.jpg"},
		},
	}

	results := svc.CommitPicked(context.Background(), req)

	if len(results) != 3 {
		t.Fatalf("want 3 results, got %d", len(results))
	}

	if !results[0].OK || !results[2].OK || results[1].OK {
		t.Fatalf("want failure only at index 1: %+v", results)
	}

	if results[1].RemoteID != "roofing/b" {
		t.Fatalf("result order broken: %+v", results[1])
	}
}

func TestDeleteRemovesBinaryAndRecord(t *testing.T) {
	store := newFakeStore()
	bin := &fakeBin{}
	svc := NewMediaService(store, bin, nil, nil, testMediaConfig())

	results := svc.Ingest(context.Background(),
		[]types.IngestFile{{Name: "a.jpg", Data: makeJPEG(t, 50, 50)}},
		types.IngestMeta{Type: "gallery"}, 5<<20)
	id := results[0].Record.ID.Hex()

	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if len(bin.removed) != 1 {
		t.Fatalf("binary not removed: %+v", bin.removed)
	}

	if _, err := svc.Get(context.Background(), id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("record still present, err=%v", err)
	}
}

func TestDeleteSurvivesBinaryFailure(t *testing.T) {
	store := newFakeStore()
	bin := &fakeBin{removeErr: errors.New("disk on fire")}
	svc := NewMediaService(store, bin, nil, nil, testMediaConfig())

	results := svc.Ingest(context.Background(),
		[]types.IngestFile{{Name: "a.jpg", Data: makeJPEG(t, 50, 50)}},
		types.IngestMeta{Type: "gallery"}, 5<<20)
	id := results[0].Record.ID.Hex()

	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("delete should succeed despite binary failure: %v", err)
	}

	if _, err := svc.Get(context.Background(), id); !errors.Is(err, ErrNotFound) {
		t.Fatal("record not deleted")
	}
}

func TestDeleteUnknownID(t *testing.T) {
	svc := NewMediaService(newFakeStore(), &fakeBin{}, nil, nil, testMediaConfig())

	if err := svc.Delete(context.Background(), primitive.NewObjectID().Hex()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUpdatePatchesRecord(t *testing.T) {
	store := newFakeStore()
	svc := NewMediaService(store, &fakeBin{}, nil, nil, testMediaConfig())

	results := svc.Ingest(context.Background(),
		[]types.IngestFile{{Name: "a.jpg", Data: makeJPEG(t, 50, 50)}},
		types.IngestMeta{Type: "gallery"}, 5<<20)
	id := results[0].Record.ID.Hex()

	alt := "new alt"
	inactive := false
	rec, err := svc.Update(context.Background(), id, model.AssetPatch{Alt: &alt, IsActive: &inactive})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if rec.Alt != "new alt" || rec.IsActive {
		t.Fatalf("patch not applied: %+v", rec)
	}
}
