package accumulator

import (
	"bytes"
	"context"
	"os"
	"runtime"
	"sync"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"golang.org/x/sync/errgroup"

	"bee/internal/cert"
	"bee/internal/domain"
)

const logHeader = "accumulator"

// Validate checks the history recorded in the file at path. Entry 0 must
// equal Init(level, name) when name is given. Every later entry must extend
// its predecessor with a valid addition proof and carry a signature that
// chains to anchor. Entries after the first are checked by workers
// goroutines (runtime.NumCPU() when workers <= 0), each with its own file
// handle. The error returned belongs to some failing entry, not necessarily
// the first.
func Validate(ctx context.Context, path string, name []byte, anchor *cert.Cert, workers int) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "failed to open accumulator file")
	}
	l, spans, err := scan(f)
	if err != nil {
		f.Close()
		return err
	}
	first, err := readEntry(f, spans[0])
	f.Close()
	if err != nil {
		return err
	}
	if err := checkFirst(l, first, name); err != nil {
		return err
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(spans)-1 {
		workers = len(spans) - 1
	}
	jww.DEBUG.Printf("[%s] validating %d entries of level %d with %d workers",
		logHeader, len(spans), int(l), workers)

	var (
		mu       sync.Mutex
		next     = 1
		firstErr error
	)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			fh, err := os.Open(path)
			if err != nil {
				return errors.Wrap(err, "failed to open accumulator file")
			}
			defer fh.Close()
			for {
				mu.Lock()
				if firstErr != nil || next >= len(spans) {
					mu.Unlock()
					return nil
				}
				i := next
				next++
				mu.Unlock()

				if err := ctx.Err(); err != nil {
					return err
				}
				err := verifyAt(fh, l, spans, i, anchor)
				if err != nil {
					jww.DEBUG.Printf("[%s] entry %d: %v", logHeader, i, err)
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return err
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		mu.Lock()
		defer mu.Unlock()
		if firstErr != nil {
			return firstErr
		}
		return err
	}
	return nil
}

func verifyAt(f *os.File, l domain.Level, spans []span, i int, anchor *cert.Cert) error {
	prev, err := readEntry(f, spans[i-1])
	if err != nil {
		return err
	}
	cur, err := readEntry(f, spans[i])
	if err != nil {
		return err
	}
	return verifyEntry(l, prev, cur, anchor)
}

// ValidateBytes is the sequential Validate of an in-memory file.
func ValidateBytes(b, name []byte, anchor *cert.Cert) error {
	l, entries, err := ParseFile(b)
	if err != nil {
		return err
	}
	if err := checkFirst(l, entries[0], name); err != nil {
		return err
	}
	for i := 1; i < len(entries); i++ {
		if err := verifyEntry(l, entries[i-1], entries[i], anchor); err != nil {
			return errors.WithMessagef(err, "entry %d", i)
		}
	}
	return nil
}

func checkFirst(l domain.Level, e *Entry, name []byte) error {
	if e.PrvAdd != nil || e.Sig != nil {
		return errors.Wrap(domain.ErrBadFile, "first entry carries a proof")
	}
	c, err := curveOf(l)
	if err != nil {
		return err
	}
	pts, err := c.DecodeAll(e.Acc)
	if err != nil {
		return err
	}
	if len(pts) != 1 {
		return errors.Wrapf(domain.ErrBadFile, "first accumulator has %d points", len(pts))
	}
	if name == nil {
		return nil
	}
	want, err := Init(l, name, nil)
	if err != nil {
		return err
	}
	if !bytes.Equal(want, e.Acc) {
		return errors.Wrap(domain.ErrBadName, "first accumulator does not match the name")
	}
	return nil
}

func verifyEntry(l domain.Level, prev, cur *Entry, anchor *cert.Cert) error {
	if cur.PrvAdd == nil || cur.Sig == nil {
		return errors.Wrap(domain.ErrBadFile, "entry without proof or signature")
	}
	if err := VerifyAdd(l, cur.PrvAdd, prev.Acc, cur.Acc); err != nil {
		return err
	}
	return VerifyEntrySig(anchor, cur.Acc, cur.PrvAdd, cur.Sig)
}
