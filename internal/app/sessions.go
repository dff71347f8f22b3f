package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/okian/attrition/internal/adapters/cache"
	"github.com/okian/attrition/internal/adapters/repository"
	"github.com/okian/attrition/internal/domain/features"
	"github.com/okian/attrition/internal/domain/model"
	"github.com/okian/attrition/internal/domain/table"
	"github.com/okian/attrition/internal/domain/types"
	"github.com/okian/attrition/pkg/logger"
	"github.com/okian/attrition/pkg/metrics"
)

// UploadSource names datasets that arrive in a request body.
const UploadSource = "upload"

// OpenDefault opens a session over the configured default dataset. A
// missing or unreadable file yields an empty session.
func (s *Service) OpenDefault(ctx context.Context) (types.SessionInfo, error) {
	if _, _, err := s.components(); err != nil {
		return types.SessionInfo{}, err
	}

	content, err := os.ReadFile(s.dataPath)
	if err != nil {
		level := "unreadable"
		if errors.Is(err, fs.ErrNotExist) {
			level = "missing"
		}
		s.logger.Warn(ctx, "default dataset "+level+", opening empty session",
			logger.String("path", s.dataPath),
			logger.Error(err),
		)
		metrics.RecordDatasetLoad("default", "error")
		return s.open(ctx, s.dataPath, cache.KeyOf(s.dataPath, nil), table.Empty())
	}
	return s.openContent(ctx, "default", s.dataPath, content)
}

// OpenUpload opens a session over CSV read from r.
func (s *Service) OpenUpload(ctx context.Context, name string, r io.Reader) (types.SessionInfo, error) {
	if r == nil {
		return types.SessionInfo{}, fmt.Errorf("%w: no upload body", ErrInvalidInput)
	}
	if name == "" {
		name = UploadSource
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return types.SessionInfo{}, fmt.Errorf("read upload: %w", err)
	}
	return s.openContent(ctx, UploadSource, name, content)
}

// openContent parses content through the dataset cache and opens a session.
// Parse failures are absorbed into an empty table.
func (s *Service) openContent(ctx context.Context, kind, source string, content []byte) (types.SessionInfo, error) {
	_, datasets, err := s.components()
	if err != nil {
		return types.SessionInfo{}, err
	}

	key := cache.KeyOf(source, content)
	if t, ok := datasets.Get(ctx, key); ok {
		metrics.RecordDatasetLoad(kind, "cached")
		return s.open(ctx, source, key, t)
	}

	raw, err := table.Read(bytes.NewReader(content))
	if err != nil {
		s.logger.Warn(ctx, "dataset could not be parsed, opening empty session",
			logger.String("source", source),
			logger.Error(err),
		)
		metrics.RecordDatasetLoad(kind, "error")
		return s.open(ctx, source, key, table.Empty())
	}

	t := features.Derive(raw)
	outcome := "ok"
	if t.IsEmpty() {
		outcome = "empty"
	}
	metrics.RecordDatasetLoad(kind, outcome)
	metrics.RecordDatasetRows(t.Len())
	datasets.Put(ctx, key, t)
	return s.open(ctx, source, key, t)
}

func (s *Service) open(ctx context.Context, source string, key cache.Key, t *table.Table) (types.SessionInfo, error) {
	store, _, err := s.components()
	if err != nil {
		return types.SessionInfo{}, err
	}

	sess := model.NewSession(s.newID(), source, key.String(), t, s.now())
	evicted, err := store.Create(ctx, sess)
	if err != nil {
		return types.SessionInfo{}, fmt.Errorf("create session: %w", err)
	}
	if evicted != "" {
		s.logger.Debug(ctx, "session evicted", logger.String("session_id", evicted))
	}

	s.logger.Info(ctx, "session opened",
		logger.String("session_id", sess.ID),
		logger.String("source", source),
		logger.Int("rows", t.Len()),
	)
	return infoOf(sess), nil
}

// Session returns the description of an open session.
func (s *Service) Session(ctx context.Context, id string) (types.SessionInfo, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return types.SessionInfo{}, err
	}
	return infoOf(sess), nil
}

// CloseSession drops a session and its predictor.
func (s *Service) CloseSession(ctx context.Context, id string) error {
	store, _, err := s.components()
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "session closed", logger.String("session_id", id))
	return nil
}

func (s *Service) session(ctx context.Context, id string) (*model.Session, error) {
	store, _, err := s.components()
	if err != nil {
		return nil, err
	}
	sess, err := store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("session %q: %w", id, err)
		}
		return nil, err
	}
	return sess, nil
}

func infoOf(sess *model.Session) types.SessionInfo {
	return types.SessionInfo{
		ID:        sess.ID,
		Source:    sess.Source,
		Dataset:   sess.Dataset,
		Rows:      sess.Table.Len(),
		Columns:   sess.Table.Columns(),
		Empty:     sess.Table.IsEmpty(),
		CreatedAt: sess.CreatedAt,
	}
}
