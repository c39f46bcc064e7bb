package index

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ziadkadry99/supportbot/internal/embeddings"
	"github.com/ziadkadry99/supportbot/internal/faq"
)

// Artifact file names. The three must be written and read together; a
// partial set is treated as absent rather than corrupt.
const (
	vectorsFileName  = "vectors.gob"
	manifestFileName = "index.gob"
	metadataFileName = "metadata.csv"
)

// manifest describes the persisted index so a load can verify it matches
// the vectors, metadata, and embedder it is being paired with.
type manifest struct {
	Count     int
	Dimension int
	Embedder  string
}

// vectorsFile is the gob-encoded embedding matrix.
type vectorsFile struct {
	Dimension int
	Vectors   [][]float32
}

// Save persists the three index artifacts to dir. Each artifact is
// written to a temp file and renamed into place, so a concurrent Load
// never observes a half-written file.
func (ix *Index) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	if err := writeGob(filepath.Join(dir, vectorsFileName), vectorsFile{
		Dimension: ix.dim,
		Vectors:   ix.vectors,
	}); err != nil {
		return fmt.Errorf("writing vectors: %w", err)
	}

	if err := writeMetadata(filepath.Join(dir, metadataFileName), ix.entries); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}

	// The manifest is written last: its presence marks a complete set.
	if err := writeGob(filepath.Join(dir, manifestFileName), manifest{
		Count:     len(ix.entries),
		Dimension: ix.dim,
		Embedder:  ix.embedder.Name(),
	}); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	return nil
}

// Load deserializes the three artifacts from dir. Returns ErrNotFound if
// any artifact is missing, so the caller can fall back to Build. The
// embedding-matrix row count must equal the metadata row count, and the
// persisted embedder name must match e.
func Load(dir string, e embeddings.Embedder) (*Index, error) {
	for _, name := range []string{vectorsFileName, manifestFileName, metadataFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: missing %s in %s", ErrNotFound, name, dir)
			}
			return nil, fmt.Errorf("checking %s: %w", name, err)
		}
	}

	var m manifest
	if err := readGob(filepath.Join(dir, manifestFileName), &m); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var vf vectorsFile
	if err := readGob(filepath.Join(dir, vectorsFileName), &vf); err != nil {
		return nil, fmt.Errorf("reading vectors: %w", err)
	}

	entries, err := faq.Load(filepath.Join(dir, metadataFileName))
	if err != nil {
		return nil, fmt.Errorf("reading metadata: %w", err)
	}

	if len(vf.Vectors) != len(entries) {
		return nil, fmt.Errorf("index mismatch: %d vectors but %d metadata rows", len(vf.Vectors), len(entries))
	}
	if m.Count != len(entries) {
		return nil, fmt.Errorf("index mismatch: manifest says %d entries, metadata has %d", m.Count, len(entries))
	}
	if m.Embedder != e.Name() {
		return nil, fmt.Errorf("index was built with embedder %q, current embedder is %q", m.Embedder, e.Name())
	}

	return &Index{
		entries:  entries,
		vectors:  vf.Vectors,
		dim:      vf.Dimension,
		embedder: e,
	}, nil
}

// LoadOrBuild loads an existing index from dir and, if the artifacts are
// absent, builds one from the corpus and persists it.
func LoadOrBuild(ctx context.Context, dir string, e embeddings.Embedder, corpus []faq.Entry, progress func(done, total int)) (*Index, error) {
	ix, err := Load(dir, e)
	if err == nil {
		return ix, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	ix, err = Build(ctx, e, corpus, progress)
	if err != nil {
		return nil, err
	}
	if err := ix.Save(dir); err != nil {
		return nil, fmt.Errorf("persisting rebuilt index: %w", err)
	}
	return ix, nil
}

func writeGob(path string, v any) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func readGob(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewDecoder(f).Decode(v)
}

func writeMetadata(path string, entries []faq.Entry) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := faq.Write(f, entries); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
