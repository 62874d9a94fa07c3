package risk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/edgard/grossessebot/internal/resilience"
)

// DefaultFetchTimeout bounds one artifact download.
const DefaultFetchTimeout = 30 * time.Second

// maxArtifactSize caps the downloaded artifact.
const maxArtifactSize = 16 << 20

// ArtifactConfig locates the model artifact. URL takes precedence over Path.
type ArtifactConfig struct {
	URL          string
	Path         string
	FetchTimeout time.Duration
	Retry        resilience.RetryConfig
	Client       *http.Client
}

// ArtifactClassifier loads a TreeClassifier from a URL or a file on first
// use and caches it for the life of the process. Failed loads are not
// cached; downloads go through a circuit breaker so a dead host is not
// hammered by every prediction. Concurrent loads share one download.
type ArtifactClassifier struct {
	cfg     ArtifactConfig
	logger  *slog.Logger
	breaker *resilience.CircuitBreaker
	loads   singleflight.Group

	mu   sync.RWMutex
	tree *TreeClassifier
}

// NewArtifactClassifier creates the loader. Nothing is fetched until the
// first Predict or Load.
func NewArtifactClassifier(cfg ArtifactConfig, logger *slog.Logger) *ArtifactClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{}
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = resilience.DefaultRetryConfig()
	}

	return &ArtifactClassifier{
		cfg:    cfg,
		logger: logger.With("component", "model_artifact"),
		breaker: resilience.NewCircuitBreaker(resilience.BreakerConfig{
			Name:    "model_artifact",
			Timeout: cfg.FetchTimeout,
		}, logger),
	}
}

// Load returns the cached tree, fetching it when needed. Errors wrap
// ErrModelUnavailable. A caller whose context ends stops waiting; the shared
// download keeps running for the others, bounded by FetchTimeout per attempt.
func (a *ArtifactClassifier) Load(ctx context.Context) (*TreeClassifier, error) {
	if tree := a.cached(); tree != nil {
		return tree, nil
	}

	ch := a.loads.DoChan("model", func() (interface{}, error) {
		if tree := a.cached(); tree != nil {
			return tree, nil
		}
		return a.load(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*TreeClassifier), nil
	}
}

func (a *ArtifactClassifier) cached() *TreeClassifier {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tree
}

func (a *ArtifactClassifier) load(ctx context.Context) (*TreeClassifier, error) {
	data, err := a.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}

	tree, err := ParseTree(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}

	a.mu.Lock()
	a.tree = tree
	a.mu.Unlock()

	a.logger.InfoContext(ctx, "Model artifact loaded", "classes", tree.Classes(), "nodes", len(tree.nodes))
	return tree, nil
}

// Predict loads the tree if needed and evaluates it.
func (a *ArtifactClassifier) Predict(ctx context.Context, features Vector) (string, error) {
	tree, err := a.Load(ctx)
	if err != nil {
		return "", err
	}
	return tree.Predict(ctx, features)
}

func (a *ArtifactClassifier) read(ctx context.Context) ([]byte, error) {
	switch {
	case a.cfg.URL != "":
		var data []byte
		err := resilience.WithRetry(ctx, a.cfg.Retry, func(ctx context.Context) error {
			return a.breaker.Execute(ctx, func(ctx context.Context) error {
				var err error
				data, err = a.fetch(ctx)
				return err
			})
		})
		return data, err
	case a.cfg.Path != "":
		data, err := os.ReadFile(a.cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read model artifact: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("no model url or path configured")
	}
}

func (a *ArtifactClassifier) fetch(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build model request: %w", err)
	}

	resp, err := a.cfg.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download model artifact: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model artifact download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtifactSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact body: %w", err)
	}
	return data, nil
}
