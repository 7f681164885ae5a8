package service

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"studyrag/loader/internal"
	"studyrag/store"
	"studyrag/types"

	"github.com/google/uuid"
)

type Service struct {
	logger *slog.Logger
	store  store.DBStorer
	loader *internal.NoteLoader
}

func New(storer store.DBStorer, cfg types.Config) *Service {
	return &Service{
		logger: slog.Default(),
		store:  storer,
		loader: internal.NewNoteLoader(cfg),
	}
}

func (s *Service) Stop() {
	s.logger.Info("Loader Service stopped")
}

func (s *Service) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fileChan := make(chan string, 10)
	docChan := make(chan *types.Document)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(fileChan)
		s.loader.WatchFile(ctx, fileChan)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(docChan)
		s.loader.ProcessFile(ctx, fileChan, docChan)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.DocumentSave(ctx, docChan)
	}()

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)

	<-sigch
	log.Println("Received shutdown signal, shutting down gracefully...")

	cancel()
	signal.Stop(sigch)
	close(sigch)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("All goroutines stopped successfully")
	case <-shutdownCtx.Done():
		log.Println("Timeout waiting for goroutines to stop, forcing shutdown...")
	}

	s.Stop()
	log.Println("Service stopped successfully")
}

// DocumentSave persists documents from docChan. Re-indexing a changed file
// replaces its chunks, an unchanged file is archived without touching the DB.
func (s *Service) DocumentSave(ctx context.Context, docChan <-chan *types.Document) {
	for doc := range docChan {
		if !s.ShouldUpdateFile(ctx, doc.ID, doc.UpdatedAt) {
			fmt.Printf("Document %s is up to date, archiving source\n", doc.ID)
			s.loader.MoveToArchive(doc.SourcePath, internal.FileStateOK)
			continue
		}

		if err := s.saveDocument(ctx, doc); err != nil {
			fmt.Printf("Error saving document %s: %v\n", doc.ID, err)
			s.loader.MoveToArchive(doc.SourcePath, internal.FileStateBad)
			continue
		}

		fmt.Printf("Successfully saved document %s with %d chunks\n", doc.ID, len(doc.Chunks))
		s.loader.MoveToArchive(doc.SourcePath, internal.FileStateOK)
	}
}

func (s *Service) saveDocument(ctx context.Context, doc *types.Document) error {
	if err := s.store.SaveDocument(ctx, *doc); err != nil {
		return err
	}

	// stale chunks of a previous version must not survive the re-index
	if err := s.store.DeleteChunksByDocID(ctx, doc.ID); err != nil {
		return err
	}

	for i := range doc.Chunks {
		if err := s.store.SaveChunk(ctx, doc.Chunks[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ShouldUpdateFile(ctx context.Context, docID uuid.UUID, modTime time.Time) bool {
	doc, err := s.store.GetDocumentByID(ctx, docID)
	if err != nil {
		// not in the DB yet
		return true
	}
	return modTime.After(doc.UpdatedAt)
}
