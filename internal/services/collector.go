package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"cycledebt/internal/core"
	"cycledebt/internal/kml"
	"cycledebt/internal/log"
)

// ErrNotDocument is returned for a directory entry that is not a regular
// file, such as a sub-directory.
var ErrNotDocument = errors.New("not a regular file")

const defaultWorkers = 4

// Collection is the outcome of one pass over a document directory.
type Collection struct {
	// Records from every document, sorted by start.
	Records []core.Record
	// Documents is the number of documents read.
	Documents int
}

// Collector reads every document of a directory and assembles their
// activity records into one time-ordered list.
type Collector struct {
	fsys    fs.FS
	workers int
	logger  *log.Logger
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithWorkers bounds the number of documents parsed at once. Values below
// one are ignored.
func WithWorkers(n int) CollectorOption {
	return func(c *Collector) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithCollectorLogger sets the logger; its component becomes collector.
func WithCollectorLogger(logger *log.Logger) CollectorOption {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger.WithComponent(log.ComponentCollector)
		}
	}
}

// NewCollector creates a collector over the top level of fsys.
func NewCollector(fsys fs.FS, opts ...CollectorOption) *Collector {
	c := &Collector{
		fsys:    fsys,
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		cfg := log.DefaultConfig()
		cfg.Component = log.ComponentCollector
		cfg.Output = io.Discard
		c.logger = log.New(cfg)
	}
	return c
}

// Collect returns the records of every document, sorted by start.
func (c *Collector) Collect(ctx context.Context) ([]core.Record, error) {
	col, err := c.Run(ctx)
	if err != nil {
		return nil, err
	}
	return col.Records, nil
}

// Run reads every entry of the directory in name order. Any entry that
// cannot be read, parsed or unpacked aborts the run; no partial result is
// returned. Records of different documents are concatenated in entry order
// and then stably sorted by start, so ties keep that order.
func (c *Collector) Run(ctx context.Context) (Collection, error) {
	started := time.Now()

	entries, err := fs.ReadDir(c.fsys, ".")
	if err != nil {
		return Collection{}, fmt.Errorf("read document directory: %w", err)
	}

	perDocument := make([][]core.Record, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records, err := c.readEntry(entry)
			if err != nil {
				return err
			}
			perDocument[i] = records
			c.logger.Debug("document processed", log.NewFields().WithDocument(entry.Name(), len(records)).ToSlice()...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.logger.WithFields(log.NewFields().WithOperation(log.OpCollect).WithError(err)).Error("collection aborted")
		return Collection{}, err
	}

	var total int
	for _, records := range perDocument {
		total += len(records)
	}
	all := make([]core.Record, 0, total)
	for _, records := range perDocument {
		all = append(all, records...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Start.Before(all[j].Start)
	})

	c.logger.WithFields(log.NewFields().WithDuration(time.Since(started).Milliseconds())).Info("documents collected",
		log.FieldDocuments, len(entries),
		log.FieldRecords, len(all),
		log.FieldWorkers, c.workers,
	)
	return Collection{Records: all, Documents: len(entries)}, nil
}

func (c *Collector) readEntry(entry fs.DirEntry) ([]core.Record, error) {
	name := entry.Name()
	if entry.IsDir() {
		return nil, fmt.Errorf("document %s: %w", name, ErrNotDocument)
	}

	f, err := c.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open document %s: %w", name, err)
	}
	defer f.Close()

	return ProcessDocument(name, f)
}

// ProcessDocument parses one document and unpacks its records in document
// order. Errors are wrapped with the document name.
func ProcessDocument(name string, r io.Reader) ([]core.Record, error) {
	root, err := kml.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document %s: %w", name, err)
	}
	records, err := core.Unpack(root)
	if err != nil {
		return nil, fmt.Errorf("unpack document %s: %w", name, err)
	}
	return records, nil
}
