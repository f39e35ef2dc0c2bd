package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MelissaSequeira/reimburse-portal/pkg/utils"
)

// LocalArtifactStore keeps uploaded supporting documents on the local
// filesystem and hands out opaque references. A reference is the stored
// filename: {label}_{uuid}{ext}, never a caller-controlled path.
type LocalArtifactStore struct {
	baseDir      string
	maxSizeBytes int64
	logger       *zap.Logger
}

// NewLocalArtifactStore creates a new LocalArtifactStore
func NewLocalArtifactStore(baseDir string, maxSizeBytes int64, logger *zap.Logger) (*LocalArtifactStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalArtifactStore{
		baseDir:      baseDir,
		maxSizeBytes: maxSizeBytes,
		logger:       logger,
	}, nil
}

// Save stores content under a generated reference. The original filename is
// consulted only for its extension, which must pass the upload whitelist.
func (s *LocalArtifactStore) Save(label, filename string, content []byte) (string, error) {
	if err := utils.ValidateUploadFilename(filename); err != nil {
		return "", err
	}
	if s.maxSizeBytes > 0 && int64(len(content)) > s.maxSizeBytes {
		return "", fmt.Errorf("file %s exceeds maximum size of %d bytes", filename, s.maxSizeBytes)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	ref := fmt.Sprintf("%s_%s%s", sanitizeLabel(label), uuid.NewString(), ext)

	fullPath := filepath.Join(s.baseDir, ref)
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write artifact",
			zap.String("ref", ref),
			zap.Error(err))
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	s.logger.Debug("Artifact stored",
		zap.String("label", label),
		zap.String("ref", ref),
		zap.Int("size", len(content)))

	return ref, nil
}

// Open returns the stored content for a reference.
func (s *LocalArtifactStore) Open(ref string) ([]byte, error) {
	if err := s.validateRef(ref); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(filepath.Join(s.baseDir, ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact %s does not exist", ref)
		}
		s.logger.Error("Failed to read artifact", zap.String("ref", ref), zap.Error(err))
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return content, nil
}

// validateRef rejects references that would escape the base directory.
func (s *LocalArtifactStore) validateRef(ref string) error {
	if ref == "" || ref != filepath.Base(ref) || strings.Contains(ref, "..") {
		return fmt.Errorf("invalid artifact reference: %q", ref)
	}
	return nil
}

// sanitizeLabel strips path separators and whitespace out of a label.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(strings.ToLower(label))
	replacer := strings.NewReplacer("/", "-", "\\", "-", " ", "-", "..", "-")
	label = replacer.Replace(label)
	if label == "" {
		label = "artifact"
	}
	return label
}
