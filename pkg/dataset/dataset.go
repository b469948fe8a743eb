package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"FintechAgent/pkg/knowledge"
	"FintechAgent/pkg/nlp"
	"FintechAgent/pkg/s3"
	"github.com/sirupsen/logrus"
)

const (
	IntentsFile       = "intents.json"
	ResponsesFile     = "response.json"
	KnowledgeBaseFile = "knowledge_base.json"
)

var (
	ErrMissingFile   = errors.New("missing required file")
	ErrMalformedJSON = errors.New("invalid JSON format")
	ErrNoObjectStore = errors.New("s3 location given but no object store configured")
)

// Paths locates the three data files. Each entry is a local path or an
// s3://bucket/key uri.
type Paths struct {
	Intents       string
	Responses     string
	KnowledgeBase string
}

// PathsIn returns the default file names under dir.
func PathsIn(dir string) Paths {
	return Paths{
		Intents:       filepath.Join(dir, IntentsFile),
		Responses:     filepath.Join(dir, ResponsesFile),
		KnowledgeBase: filepath.Join(dir, KnowledgeBaseFile),
	}
}

// Dataset is the bot's static content, read once at startup.
type Dataset struct {
	Intents       nlp.IntentTable
	Responses     map[string]string
	KnowledgeBase []knowledge.Entry
}

type Loader struct {
	objects s3.ItfS3
	log     *logrus.Logger
}

// NewLoader returns a loader. objects may be nil when every path is local.
func NewLoader(objects s3.ItfS3, log *logrus.Logger) *Loader {
	return &Loader{
		objects: objects,
		log:     log,
	}
}

func (l *Loader) Load(ctx context.Context, paths Paths) (*Dataset, error) {
	raw, err := l.read(ctx, paths.Intents)
	if err != nil {
		return nil, err
	}
	intents, err := ParseIntents(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", paths.Intents, err)
	}

	raw, err = l.read(ctx, paths.Responses)
	if err != nil {
		return nil, err
	}
	responses, err := ParseResponses(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", paths.Responses, err)
	}

	raw, err = l.read(ctx, paths.KnowledgeBase)
	if err != nil {
		return nil, err
	}
	entries, err := ParseKnowledgeBase(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", paths.KnowledgeBase, err)
	}

	l.log.WithFields(logrus.Fields{
		"intents":        len(intents),
		"responses":      len(responses),
		"knowledge_base": len(entries),
	}).Info("Dataset loaded")

	return &Dataset{
		Intents:       intents,
		Responses:     responses,
		KnowledgeBase: entries,
	}, nil
}

func (l *Loader) read(ctx context.Context, location string) ([]byte, error) {
	if s3.IsURI(location) {
		if l.objects == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoObjectStore, location)
		}
		bucket, key, err := s3.ParseURI(location)
		if err != nil {
			return nil, err
		}
		data, err := l.objects.ReadObject(ctx, bucket, key)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMissingFile, location, err)
		}
		return data, nil
	}

	data, err := os.ReadFile(location)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingFile, location)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	return data, nil
}
