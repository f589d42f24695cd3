// internal/pipeline/artifacts.go
package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shub15/the-unfair-advantage/internal/common/locale"
	"github.com/shub15/the-unfair-advantage/internal/common/logger"
	"github.com/shub15/the-unfair-advantage/internal/models"
)

// Artifact file names.
const (
	ProfileFile = "business_profile.json"
	ScoreFile   = "assessment_score.json"
	CaseFile    = "comprehensive_business_case.json"
)

// ViewFile names the report of one audience. Only the entrepreneur report
// carries the locale suffix.
func ViewFile(a models.Audience, loc string) string {
	if a == models.AudienceEntrepreneur {
		return fmt.Sprintf("business_case_%s%s.json", a, locale.FileSuffix(loc))
	}
	return fmt.Sprintf("business_case_%s.json", a)
}

func FeedbackFile(loc string) string {
	return fmt.Sprintf("user_feedback%s.json", locale.FileSuffix(loc))
}

// ArtifactWriter persists a pipeline result as JSON files. Each file is
// written to a temporary sibling and renamed into place.
type ArtifactWriter struct {
	dir    string
	logger logger.Logger
}

func NewArtifactWriter(dir string, log logger.Logger) *ArtifactWriter {
	return &ArtifactWriter{
		dir:    dir,
		logger: log.WithFields(map[string]interface{}{"component": "artifacts"}),
	}
}

type artifact struct {
	name string
	doc  interface{}
}

// Write stores every artifact of result and returns the written paths.
func (w *ArtifactWriter) Write(result *Result) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	loc := result.Case.Locale
	files := []artifact{
		{ProfileFile, result.Case.Profile},
		{ScoreFile, result.Case.Score},
		{CaseFile, result.Case},
	}
	for _, a := range models.Audiences {
		files = append(files, artifact{ViewFile(a, loc), result.Views.Get(a).Document()})
	}
	if result.Feedback != nil {
		files = append(files, artifact{FeedbackFile(loc), result.Feedback})
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(w.dir, f.name)
		if err := writeJSON(path, f.doc); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	w.logger.Info("artifacts written", map[string]interface{}{
		"dir":   w.dir,
		"files": len(written),
	})
	return written, nil
}

func writeJSON(path string, doc interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	renamed := false
	defer func() {
		if !renamed {
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	renamed = true
	return nil
}
