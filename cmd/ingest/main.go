// Command ingest chunks the markdown knowledge base, embeds each chunk and
// upserts the vectors into the Vectorize index the chat responder queries.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"onetracker/config"
	ai "onetracker/services/intelligence"
	"onetracker/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	chunkSize    = 500
	chunkOverlap = 100
	batchSize    = 40
)

type document struct {
	Text     string
	Source   string
	Title    string
	Category string
}

func main() {
	docsDir := flag.String("docs", "docs", "folder of markdown documents to ingest")
	flag.Parse()

	config.LoadConfig()
	logger := utils.GetLogger()

	docs, err := loadDocs(*docsDir)
	if err != nil {
		logger.Sugar().Fatalf("ingest: %v", err)
	}
	if len(docs) == 0 {
		logger.Sugar().Fatalf("ingest: no markdown documents in %s", *docsDir)
	}

	embedder := ai.NewWorkersAIEmbedder(
		config.AppConfig.CFAccountID, config.AppConfig.CFAPIToken)
	index := ai.NewVectorizeIndex(
		config.AppConfig.CFAccountID, config.AppConfig.CFAPIToken,
		config.AppConfig.VectorizeIndex)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var vectors []ai.Vector
	for _, doc := range docs {
		chunks := ai.ChunkText(doc.Text, chunkSize, chunkOverlap)
		logger.Info("document split",
			zap.String("source", doc.Source), zap.Int("chunks", len(chunks)))

		for i := 0; i < len(chunks); i += batchSize {
			end := i + batchSize
			if end > len(chunks) {
				end = len(chunks)
			}
			batch := chunks[i:end]

			embeddings, err := embedder.EmbedBatch(ctx, batch)
			if err != nil {
				logger.Sugar().Fatalf("ingest: embed %s: %v", doc.Source, err)
			}

			for j, emb := range embeddings {
				vectors = append(vectors, ai.Vector{
					ID:     fmt.Sprintf("%s-%s", doc.Source, uuid.NewString()[:8]),
					Values: emb,
					Metadata: map[string]any{
						"text":        batch[j],
						"source":      doc.Source,
						"title":       doc.Title,
						"category":    doc.Category,
						"chunk_index": i + j,
					},
				})
			}
		}
	}

	logger.Info("vectors prepared", zap.Int("total", len(vectors)))

	for i := 0; i < len(vectors); i += batchSize {
		end := i + batchSize
		if end > len(vectors) {
			end = len(vectors)
		}
		if err := index.Upsert(ctx, vectors[i:end]); err != nil {
			logger.Sugar().Fatalf("ingest: upsert batch %d: %v", i/batchSize+1, err)
		}
		logger.Info("batch upserted", zap.Int("batch", i/batchSize+1))
	}

	logger.Info("ingestion complete", zap.Int("vectors", len(vectors)))
}

func loadDocs(folder string) ([]document, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("read docs folder: %w", err)
	}

	var docs []document
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(folder, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		docs = append(docs, document{
			Text:     string(data),
			Source:   entry.Name(),
			Title:    docTitle(entry.Name()),
			Category: "general",
		})
	}
	return docs, nil
}

func docTitle(filename string) string {
	name := strings.ReplaceAll(strings.TrimSuffix(filename, ".md"), "-", " ")
	words := strings.Fields(name)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
