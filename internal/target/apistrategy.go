package target

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mwnf/legacy-importer/internal/config"
)

// Resource is the subset of an API resource the pipeline reads back:
// enough to match entities by backward-compatibility key or by the unique
// constraint fields during the exhaustive search fallback.
type Resource struct {
	ID                    string `json:"id"`
	InternalName          string `json:"internal_name"`
	BackwardCompatibility string `json:"backward_compatibility"`
	Category              string `json:"category,omitempty"`
	LanguageID            string `json:"language_id,omitempty"`
}

// APIStrategy writes entities through the target system's REST API. The
// API enforces uniqueness server-side; creates that hit an existing row
// surface as ConflictError for the caller's find-or-create fallback.
// Calls use a per-request timeout and are never retried automatically.
type APIStrategy struct {
	client  *http.Client
	baseURL string
	token   string
	perPage int
}

// NewAPIStrategy builds an API write backend from configuration.
func NewAPIStrategy(cfg config.APIConfig) *APIStrategy {
	return &APIStrategy{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		perPage: cfg.PerPage,
	}
}

// PerPage returns the configured index page size.
func (a *APIStrategy) PerPage() int { return a.perPage }

// entityPath converts an entity type name to its API path segment.
func entityPath(entity string) string {
	return strings.ReplaceAll(entity, "_", "-")
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

func (a *APIStrategy) do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read api response: %w", err)
	}

	if resp.StatusCode == http.StatusUnprocessableEntity {
		return nil, &ConflictError{Entity: strings.Trim(path, "/"), Detail: string(respBody)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("api request %s %s returned %d: %s",
			method, path, resp.StatusCode, string(respBody))
	}

	if len(respBody) == 0 {
		return nil, nil
	}
	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("failed to decode api response: %w", err)
	}
	return env.Data, nil
}

// create POSTs the payload and returns the new resource's id.
func (a *APIStrategy) create(ctx context.Context, entity string, payload interface{}) (string, error) {
	data, err := a.do(ctx, http.MethodPost, "/"+entityPath(entity), payload)
	if err != nil {
		return "", err
	}

	var res Resource
	if err := json.Unmarshal(data, &res); err != nil {
		return "", fmt.Errorf("failed to decode created %s: %w", entity, err)
	}
	if res.ID == "" {
		return "", fmt.Errorf("api returned no id for created %s", entity)
	}
	return res.ID, nil
}

// Index fetches one page of an entity collection, used by the bounded
// exhaustive search fallback.
func (a *APIStrategy) Index(ctx context.Context, entity string, page, perPage int) ([]Resource, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("per_page", fmt.Sprintf("%d", perPage))

	data, err := a.do(ctx, http.MethodGet, "/"+entityPath(entity)+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resources []Resource
	if err := json.Unmarshal(data, &resources); err != nil {
		return nil, fmt.Errorf("failed to decode %s index: %w", entity, err)
	}
	return resources, nil
}

func (a *APIStrategy) WriteLanguage(ctx context.Context, data LanguageData) (string, error) {
	return a.create(ctx, EntityLanguage, data)
}

func (a *APIStrategy) WriteLanguageTranslation(ctx context.Context, data LanguageTranslationData) error {
	_, err := a.create(ctx, EntityLanguageTranslation, data)
	return err
}

func (a *APIStrategy) WriteCountry(ctx context.Context, data CountryData) (string, error) {
	return a.create(ctx, EntityCountry, data)
}

func (a *APIStrategy) WriteCountryTranslation(ctx context.Context, data CountryTranslationData) error {
	_, err := a.create(ctx, EntityCountryTranslation, data)
	return err
}

func (a *APIStrategy) WriteContext(ctx context.Context, data ContextData) (string, error) {
	return a.create(ctx, EntityContext, data)
}

func (a *APIStrategy) WriteGlossary(ctx context.Context, data GlossaryData) (string, error) {
	return a.create(ctx, EntityGlossary, data)
}

func (a *APIStrategy) WriteGlossaryTranslation(ctx context.Context, data GlossaryTranslationData) error {
	_, err := a.create(ctx, EntityGlossaryTranslation, data)
	return err
}

func (a *APIStrategy) WriteGlossarySpelling(ctx context.Context, data GlossarySpellingData) (string, error) {
	return a.create(ctx, EntityGlossarySpelling, data)
}

func (a *APIStrategy) WriteItem(ctx context.Context, data ItemData) (string, error) {
	return a.create(ctx, EntityItem, data)
}

func (a *APIStrategy) WriteItemTranslation(ctx context.Context, data ItemTranslationData) error {
	_, err := a.create(ctx, EntityItemTranslation, data)
	return err
}

func (a *APIStrategy) WriteTag(ctx context.Context, data TagData) (string, error) {
	return a.create(ctx, EntityTag, data)
}

func (a *APIStrategy) WriteAuthor(ctx context.Context, data AuthorData) (string, error) {
	return a.create(ctx, EntityAuthor, data)
}

func (a *APIStrategy) WriteArtist(ctx context.Context, data ArtistData) (string, error) {
	return a.create(ctx, EntityArtist, data)
}

// attachRequest is the relationship-update payload shared by the attach
// endpoints.
type attachRequest struct {
	Attach []string `json:"attach"`
}

func (a *APIStrategy) AttachTagsToItem(ctx context.Context, itemID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	_, err := a.do(ctx, http.MethodPatch,
		fmt.Sprintf("/item/%s/tags", itemID), attachRequest{Attach: tagIDs})
	return err
}

func (a *APIStrategy) AttachArtistsToItem(ctx context.Context, itemID string, artistIDs []string) error {
	if len(artistIDs) == 0 {
		return nil
	}
	_, err := a.do(ctx, http.MethodPatch,
		fmt.Sprintf("/item/%s/artists", itemID), attachRequest{Attach: artistIDs})
	return err
}

// maxLookupPages bounds FindByBackwardCompatibility so a remote lookup
// can never loop without end on a pathological collection.
const maxLookupPages = 200

// FindByBackwardCompatibility pages through the entity collection looking
// for a resource whose backward-compatibility field matches.
func (a *APIStrategy) FindByBackwardCompatibility(ctx context.Context, entity, key string) (string, error) {
	for page := 1; page <= maxLookupPages; page++ {
		resources, err := a.Index(ctx, entity, page, a.perPage)
		if err != nil {
			return "", err
		}
		for _, res := range resources {
			if res.BackwardCompatibility == key {
				return res.ID, nil
			}
		}
		if len(resources) < a.perPage {
			break
		}
	}
	return "", nil
}
