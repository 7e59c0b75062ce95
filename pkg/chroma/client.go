package chroma

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"voice-journal/pkg/config"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings/gemini"
)

const (
	collectionName = "journal"
	maxTextLength  = 10000
)

// ChromaClient indexes journal entries for semantic search. Entries are
// stored elsewhere; the index only maps text to entry IDs.
type ChromaClient struct {
	client     chroma.Client
	collection chroma.Collection
}

func NewChromaClient(ctx context.Context, cfg *config.Config) (*ChromaClient, error) {
	if cfg.ChromaURL == "" && cfg.ChromaAPIKey == "" {
		return nil, fmt.Errorf("CHROMA_URL or CHROMA_API_KEY is required")
	}

	// The embedding function reads its key from the environment
	if cfg.GeminiAPIKey != "" {
		os.Setenv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	}

	embedFunc, err := gemini.NewGeminiEmbeddingFunction(
		gemini.WithEnvAPIKey(),
		gemini.WithDefaultModel("text-embedding-004"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini embedding function: %w", err)
	}

	// Self-hosted Chroma when CHROMA_URL is set, Chroma Cloud otherwise
	var opts []chroma.ClientOption
	if cfg.ChromaURL != "" {
		opts = append(opts, chroma.WithBaseURL(cfg.ChromaURL))
	} else {
		opts = append(opts,
			chroma.WithBaseURL(chroma.ChromaCloudEndpoint),
			chroma.WithCloudAPIKey(cfg.ChromaAPIKey),
		)
	}
	if cfg.ChromaDatabase != "" && cfg.ChromaTenant != "" {
		opts = append(opts, chroma.WithDatabaseAndTenant(cfg.ChromaDatabase, cfg.ChromaTenant))
	} else if cfg.ChromaTenant != "" {
		opts = append(opts, chroma.WithTenant(cfg.ChromaTenant))
	}

	client, err := chroma.NewHTTPClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Chroma client: %w", err)
	}

	collection, err := client.GetOrCreateCollection(
		ctx,
		collectionName,
		chroma.WithEmbeddingFunctionCreate(embedFunc),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("[Chroma] Initialized client with collection: %s", collectionName)
	return &ChromaClient{
		client:     client,
		collection: collection,
	}, nil
}

// UpsertEntry indexes an entry under its ID, replacing any earlier version
func (c *ChromaClient) UpsertEntry(ctx context.Context, entryID, userID, text string, categories []string) error {
	if len(text) > maxTextLength {
		text = text[:maxTextLength]
	}

	metadata, err := chroma.NewDocumentMetadataFromMap(map[string]interface{}{
		"user_id":    userID,
		"entry_id":   entryID,
		"categories": strings.Join(categories, ","),
	})
	if err != nil {
		return fmt.Errorf("failed to create metadata: %w", err)
	}

	err = c.collection.Upsert(
		ctx,
		chroma.WithIDs(chroma.DocumentID(entryID)),
		chroma.WithMetadatas(metadata),
		chroma.WithTexts(text),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert journal embedding: %w", err)
	}
	return nil
}

// SemanticSearch returns the IDs of the user's entries closest to query,
// nearest first, with their distances
func (c *ChromaClient) SemanticSearch(ctx context.Context, userID, query string, limit int) ([]string, []float64, error) {
	results, err := c.collection.Query(
		ctx,
		chroma.WithQueryTexts(query),
		chroma.WithNResults(limit),
		chroma.WithWhereQuery(chroma.EqString("user_id", userID)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query collection: %w", err)
	}

	if results == nil || results.CountGroups() == 0 {
		return []string{}, []float64{}, nil
	}

	idGroups := results.GetIDGroups()
	if len(idGroups) == 0 || len(idGroups[0]) == 0 {
		return []string{}, []float64{}, nil
	}

	entryIDs := make([]string, 0, len(idGroups[0]))
	for _, id := range idGroups[0] {
		entryIDs = append(entryIDs, string(id))
	}

	distances := []float64{}
	if distanceGroups := results.GetDistancesGroups(); len(distanceGroups) > 0 {
		for _, d := range distanceGroups[0] {
			distances = append(distances, float64(d))
		}
	}

	log.Printf("[Chroma] Search for user %s returned %d entries", userID, len(entryIDs))
	return entryIDs, distances, nil
}

func (c *ChromaClient) DeleteEntry(ctx context.Context, entryID string) error {
	if err := c.collection.Delete(ctx, chroma.WithIDsDelete(chroma.DocumentID(entryID))); err != nil {
		return fmt.Errorf("failed to delete journal embedding: %w", err)
	}
	return nil
}

func (c *ChromaClient) Close() error {
	return c.client.Close()
}
