package internal

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"studyrag/chunker"
	"studyrag/model"
	"studyrag/types"

	"github.com/google/uuid"
)

const metaSuffix = ".meta.json"

// NoteLoader watches the source directory for study material (textbook
// chapters, notes, scans) and turns each file into an embedded, chunked
// document ready for the store.
type NoteLoader struct {
	cfg      types.Config
	embedder model.Embedder
	vision   model.VisionModel
	splitter *chunker.Chunker

	FileMutex       sync.Mutex
	FileFirstSeen   map[string]time.Time
	FilesProcessing map[string]bool
}

func NewNoteLoader(cfg types.Config) *NoteLoader {
	createDirectories(cfg.SourceDir, cfg.ArchiveDir, cfg.BadDir)
	return &NoteLoader{
		cfg:      cfg,
		embedder: model.NewOllamaEmbedder(),
		vision:   model.NewLLaVA(),
		splitter: chunker.NewWithOptions(chunker.Options{
			MaxChunkSize: cfg.ChunkSize,
			OverlapSize:  cfg.ChunkOverlap,
		}),
		FileFirstSeen:   make(map[string]time.Time),
		FilesProcessing: make(map[string]bool),
	}
}

// WatchFile polls the source directory and sends files to fileChan once they
// have been quiet for the configured monitoring time. Metadata sidecars are
// never sent, they ride along with their document.
func (l *NoteLoader) WatchFile(ctx context.Context, fileChan chan<- string) {
	fmt.Printf("Start monitoring folder: %s\n", l.cfg.SourceDir)

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	defer fmt.Println("File watcher stopped and cleaned up")

	for {
		if ctx.Err() != nil {
			fmt.Println("Stopping file watcher (pre-check)...")
			return
		}

		select {
		case <-ctx.Done():
			fmt.Println("Stopping file watcher (context cancelled)...")
			return
		case <-ticker.C:
			files, err := os.ReadDir(l.cfg.SourceDir)
			if err != nil {
				fmt.Printf("error while reading source directory: %s\n", err)
				continue
			}

			currentFiles := make(map[string]bool)

			for _, file := range files {
				if file.IsDir() || strings.HasSuffix(file.Name(), metaSuffix) {
					continue
				}

				filePath := filepath.Join(l.cfg.SourceDir, file.Name())
				currentFiles[filePath] = true

				l.FileMutex.Lock()
				if l.FilesProcessing[filePath] {
					l.FileMutex.Unlock()
					continue
				}

				if _, exists := l.FileFirstSeen[filePath]; !exists {
					l.FileFirstSeen[filePath] = time.Now()
					fmt.Printf("New file detected: %s\n", filePath)
					l.FileMutex.Unlock()
					continue
				}

				firstSeen := l.FileFirstSeen[filePath]
				l.FileMutex.Unlock()

				if time.Since(firstSeen) > l.cfg.MonitoringTime {
					fmt.Printf("The file %s has not been modified for more than %v seconds. Start processing...\n", filePath, l.cfg.MonitoringTime.Seconds())

					l.FileMutex.Lock()
					l.FilesProcessing[filePath] = true
					l.FileMutex.Unlock()

					select {
					case fileChan <- filePath:
					case <-ctx.Done():
						return
					}
				}
			}

			// drop tracking entries for files that disappeared
			l.FileMutex.Lock()
			for filePath := range l.FileFirstSeen {
				if !currentFiles[filePath] {
					delete(l.FileFirstSeen, filePath)
					delete(l.FilesProcessing, filePath)
					fmt.Printf("The file has been removed from tracking: %s\n", filePath)
				}
			}
			l.FileMutex.Unlock()
		}
	}
}

// ProcessFile consumes paths from fileChan, converts each into a document and
// forwards it to docChan. Files that cannot be processed go to the bad
// directory.
func (l *NoteLoader) ProcessFile(ctx context.Context, fileChan <-chan string, docChan chan<- *types.Document) {
	defer fmt.Println("File processor stopped and cleaned up")

	for {
		if ctx.Err() != nil {
			fmt.Println("Stopping file processor (pre-check)...")
			return
		}

		select {
		case <-ctx.Done():
			fmt.Println("Stopping file processor (context cancelled)...")
			return
		case filePath, ok := <-fileChan:
			if !ok {
				fmt.Println("File channel closed, stopping processor...")
				return
			}

			fmt.Printf("Processing file: %s\n", filePath)
			doc, err := l.fetchFile(ctx, filePath)

			if ctx.Err() != nil {
				fmt.Printf("File processing interrupted: %s\n", filePath)
				// keep FileFirstSeen so the file is retried on next start
				l.FileMutex.Lock()
				delete(l.FilesProcessing, filePath)
				l.FileMutex.Unlock()
				return
			}

			if err != nil {
				fmt.Printf("Error processing file %s: %v\n", filePath, err)
				l.MoveToArchive(filePath, FileStateBad)
			} else {
				select {
				case docChan <- doc:
				case <-ctx.Done():
					return
				}
			}

			l.FileMutex.Lock()
			delete(l.FilesProcessing, filePath)
			delete(l.FileFirstSeen, filePath)
			l.FileMutex.Unlock()
		}
	}
}

func (l *NoteLoader) fetchFile(ctx context.Context, filePath string) (*types.Document, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}

	id, err := uuid.Parse(generateDocumentID(filePath))
	if err != nil {
		return nil, fmt.Errorf("invalid document id: %w", err)
	}

	meta := l.readSidecarMetadata(filePath).WithDerived()

	text, source, err := l.extractText(ctx, filePath)
	if err != nil {
		return nil, err
	}

	chunks, err := l.buildChunks(text, id, meta)
	if err != nil {
		return nil, err
	}

	doc := &types.Document{
		ID:         id,
		Title:      generateTitle(filePath),
		Metadata:   meta,
		Chunks:     chunks,
		Source:     source,
		SourcePath: filePath,
		CreatedAt:  fileInfo.ModTime(),
		UpdatedAt:  fileInfo.ModTime(),
		Version:    1,
	}

	return doc, nil
}

// buildChunks splits the text with the configured strategy and embeds every
// produced chunk. All chunks inherit the document metadata unchanged.
func (l *NoteLoader) buildChunks(text string, docID uuid.UUID, meta types.Metadata) ([]types.Chunk, error) {
	parts := l.splitter.Chunk(text, chunker.Strategy(l.cfg.Strategy))
	infos := chunker.Describe(parts)

	chunks := make([]types.Chunk, 0, len(parts))
	for i, info := range infos {
		if strings.TrimSpace(info.Content) == "" {
			continue
		}

		embedding, err := l.embedder.Embed(info.Content)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d: %w", i, err)
		}

		chunks = append(chunks, types.Chunk{
			ID:        uuid.New(),
			DocID:     docID,
			Index:     info.Index,
			Total:     info.Total,
			Heading:   info.Heading,
			Content:   info.Content,
			WordCount: info.WordCount,
			CharCount: info.CharCount,
			Metadata:  meta,
			Embedding: embedding,
		})
	}
	return chunks, nil
}

// extractText reads the file content as plain text, converting PDFs and
// images along the way. It reports the source kind it detected.
func (l *NoteLoader) extractText(ctx context.Context, filePath string) (string, string, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".md", ".txt":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", "", err
		}
		return string(data), "text", nil

	case ".pdf":
		if err := RemoveHeaderFooterCrop(filePath, filePath, 46, 57); err != nil {
			fmt.Printf("crop failed, extracting full pages: %v\n", err)
		}
		text, err := ExtractPDFText(filePath)
		if err != nil {
			return "", "", err
		}
		return text, "pdf", nil

	case ".png", ".jpg", ".jpeg":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", "", err
		}
		img := base64.StdEncoding.EncodeToString(data)
		text, err := l.vision.Retry(ctx, img, 3)
		if err != nil {
			return "", "", fmt.Errorf("image transcription: %w", err)
		}
		return text, "image", nil
	}

	return "", "", fmt.Errorf("unsupported file type: %s", filePath)
}

// readSidecarMetadata loads <file>.meta.json if present. A missing or broken
// sidecar leaves the metadata empty, the document is still indexed.
func (l *NoteLoader) readSidecarMetadata(filePath string) types.Metadata {
	var meta types.Metadata

	data, err := os.ReadFile(filePath + metaSuffix)
	if err != nil {
		return meta
	}

	if err := json.Unmarshal(data, &meta); err != nil {
		fmt.Printf("broken metadata sidecar for %s: %v\n", filePath, err)
		return types.Metadata{}
	}
	return meta
}

func generateTitle(filePath string) string {
	fileName := filepath.Base(filePath)
	fileName = strings.TrimSuffix(fileName, filepath.Ext(fileName))
	fileName = strings.ReplaceAll(fileName, "_", " ")
	fileName = strings.ReplaceAll(fileName, "-", " ")
	return fileName
}

func generateDocumentID(filePath string) string {
	hash := md5.Sum([]byte(filePath))
	return fmt.Sprintf("%x", hash)
}

const (
	FileStateOK = iota
	FileStateBad
)

// MoveToArchive copies the file (and its metadata sidecar, if any) into a
// dated archive or bad directory and removes the original.
func (l *NoteLoader) MoveToArchive(filePath string, fileState int) {
	var state string
	switch fileState {
	case FileStateBad:
		state = l.cfg.BadDir
	default:
		state = l.cfg.ArchiveDir
	}

	currentDate := time.Now().Format("2006-01-02")
	destDir := filepath.Join(state, currentDate)

	if _, err := os.Stat(destDir); os.IsNotExist(err) {
		if err := os.MkdirAll(destDir, 0755); err != nil {
			fmt.Printf("error creating directory: %s\n", err)
			return
		}
	}

	moveFile(filePath, destDir)
	if _, err := os.Stat(filePath + metaSuffix); err == nil {
		moveFile(filePath+metaSuffix, destDir)
	}
}

func moveFile(filePath, destDir string) {
	destPath := filepath.Join(destDir, filepath.Base(filePath))

	// rename on conflict
	counter := 1
	for {
		if _, err := os.Stat(destPath); os.IsNotExist(err) {
			break
		}
		ext := filepath.Ext(destPath)
		baseName := strings.TrimSuffix(filepath.Base(destPath), ext)
		destPath = filepath.Join(destDir, fmt.Sprintf("%s_%d%s", baseName, counter, ext))
		counter++
	}

	in, err := os.Open(filePath)
	if err != nil {
		fmt.Printf("error open file: %s\n", err)
		return
	}
	defer in.Close()

	out, err := os.Create(destPath)
	if err != nil {
		fmt.Printf("error create file: %s\n", err)
		return
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		fmt.Printf("error moving file to archive: %s\n", err)
		return
	}

	fmt.Printf("File moved to archive: %s\n", destPath)
	in.Close()
	os.Remove(filePath)
}

func createDirectories(sourceDir, archiveDir, badDir string) error {
	dirs := []string{sourceDir, archiveDir, badDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
