package config

import (
	"context"
	"errors"
	"fmt"

	"FintechAgent/pkg/dataset"
	"FintechAgent/pkg/gemini"
	"FintechAgent/pkg/huggingface"
	"FintechAgent/pkg/knowledge"
	"FintechAgent/pkg/llm"
	"FintechAgent/pkg/nlp"
	"FintechAgent/pkg/openai"
	"FintechAgent/pkg/redis"
	"FintechAgent/pkg/s3"
	"github.com/sirupsen/logrus"
)

// Agent bundles everything the dialog engine needs that is built once at
// startup: the static data, the classifier, the vector index and the
// generator.
type Agent struct {
	Dataset    *dataset.Dataset
	Classifier *nlp.Classifier
	Retriever  *knowledge.Retriever
	Fallback   *llm.Fallback

	closers []func() error
}

// NewAgent loads the data files and builds the index. Any failure here is
// a startup error.
func NewAgent(ctx context.Context, cfg Config, log *logrus.Logger) (*Agent, error) {
	agent := &Agent{}

	var objects s3.ItfS3
	if s3.IsURI(cfg.Data.Intents) || s3.IsURI(cfg.Data.Responses) || s3.IsURI(cfg.Data.KnowledgeBase) {
		client, err := s3.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 client: %w", err)
		}
		objects = client
	}

	ds, err := dataset.NewLoader(objects, log).Load(ctx, cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	agent.Dataset = ds
	agent.Classifier = nlp.NewClassifier(ds.Intents, log)

	var geminiClient gemini.IGemini
	lazyGemini := func() (gemini.IGemini, error) {
		if geminiClient != nil {
			return geminiClient, nil
		}
		client, err := gemini.NewGeminiClient(ctx)
		if err != nil {
			return nil, err
		}
		geminiClient = client
		agent.closers = append(agent.closers, client.Close)
		return client, nil
	}

	embedder, err := newEmbedder(cfg.EmbedderProvider, lazyGemini)
	if err != nil {
		agent.Close()
		return nil, fmt.Errorf("failed to create %s embedder: %w", cfg.EmbedderProvider, err)
	}

	retriever, err := knowledge.NewRetriever(ctx, embedder, ds.KnowledgeBase, log)
	if err != nil {
		agent.Close()
		return nil, fmt.Errorf("failed to build knowledge base index: %w", err)
	}
	agent.Retriever = retriever

	generator := newGenerator(cfg, lazyGemini, log)

	opts := []llm.FallbackOption{
		llm.WithTimeout(cfg.GeneratorTimeout),
		llm.WithCredentialCheck(isCredentialError),
	}
	if cfg.RedisAddress != "" {
		cache := redis.New(cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB)
		agent.closers = append(agent.closers, cache.Close)
		opts = append(opts, llm.WithCache(cache, cfg.ReplyCacheTTL))
	}
	agent.Fallback = llm.NewFallback(generator, log, opts...)

	log.WithFields(logrus.Fields{
		"embedder":  cfg.EmbedderProvider,
		"generator": cfg.GeneratorProvider,
		"intents":   len(ds.Intents),
		"questions": retriever.Size(),
		"cache":     cfg.RedisAddress != "",
	}).Info("Agent ready")

	return agent, nil
}

// Close releases client connections held by the agent.
func (a *Agent) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func newEmbedder(provider string, geminiClient func() (gemini.IGemini, error)) (knowledge.Embedder, error) {
	switch provider {
	case ProviderGemini:
		return geminiClient()
	case ProviderOpenAI:
		return openai.NewChatGPT()
	default:
		return knowledge.NewHashingEmbedder(knowledge.DefaultHashingDim), nil
	}
}

// newGenerator never fails: a backend without credentials is replaced by
// one that reports the missing credentials on every call, so the service
// still starts and answers with the configuration apology.
func newGenerator(cfg Config, geminiClient func() (gemini.IGemini, error), log *logrus.Logger) llm.Generator {
	var (
		generator llm.Generator
		err       error
	)

	switch cfg.GeneratorProvider {
	case ProviderGemini:
		generator, err = geminiClient()
	case ProviderOpenAI:
		generator, err = openai.NewChatGPT()
	default:
		generator = huggingface.New(cfg.GeneratorTimeout)
	}

	if err != nil {
		log.WithFields(logrus.Fields{
			"generator": cfg.GeneratorProvider,
			"error":     err.Error(),
		}).Error("Generator not configured, generative replies will be unavailable")
		return llm.GeneratorFunc(func(context.Context, string, int) (string, error) {
			return "", err
		})
	}
	return generator
}

func isCredentialError(err error) bool {
	return errors.Is(err, huggingface.ErrMissingCredentials) ||
		errors.Is(err, gemini.ErrMissingAPIKey) ||
		errors.Is(err, openai.ErrMissingAPIKey)
}
