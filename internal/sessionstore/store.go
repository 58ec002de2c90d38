// Package sessionstore owns the process-wide temporary root and the per-session
// directories beneath it. Every path it hands out is built from validated
// segments; client-supplied strings are never joined unchecked.
//
// Layout:
//
//	<root>/<session_id>/original<ext>
//	<root>/<session_id>/<artifact>
//
// The root is removed by Teardown on graceful shutdown. If the process is
// killed the root is left behind; the cleanup service reaps such leftovers.
package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/killallgit/studio-api/pkg/errors"
	"go.uber.org/zap"
)

// DefaultPrefix is used for the root directory name when Config.Prefix is empty
const DefaultPrefix = "audio-studio-"

// tempPrefix marks in-flight writes; names starting with '.' never validate,
// so staged files cannot be downloaded.
const tempPrefix = ".tmp-"

var errStoreClosed = errors.New("session store has been torn down")

// Config configures a Store
type Config struct {
	// Parent is the directory the root is created in; empty means os.TempDir()
	Parent string
	// Prefix is the root directory name prefix
	Prefix string
	Logger *zap.Logger
}

// Session describes an upload session
type Session struct {
	ID               string    `json:"session_id"`
	Dir              string    `json:"-"`
	OriginalFilename string    `json:"filename"`
	StoredName       string    `json:"stored_name"`
	FilePath         string    `json:"file_path"`
	Size             int64     `json:"size"`
	CreatedAt        time.Time `json:"created_at"`
}

// Artifact describes a committed file inside a session directory
type Artifact struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modified_at"`
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// Store is the session-scoped temporary file store
type Store struct {
	root string
	log  *zap.Logger

	mu    sync.Mutex
	locks map[string]*sessionLock

	// life is held shared by Create and exclusively by Teardown, so the root
	// is never recreated or removed under an upload in progress
	life   sync.RWMutex
	closed bool
}

// New creates the process-wide root directory and returns a Store owning it
func New(cfg Config) (*Store, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	parent := cfg.Parent
	if parent != "" {
		if err := os.MkdirAll(parent, 0755); err != nil {
			return nil, translateFSError("create root parent", err)
		}
	}

	root, err := os.MkdirTemp(parent, prefix+"*")
	if err != nil {
		return nil, translateFSError("create root", err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		_ = os.RemoveAll(root)
		return nil, translateFSError("resolve root", err)
	}

	log.Info("session store root created",
		zap.String("root", absRoot),
		zap.String("note", "root is removed on graceful shutdown only; it leaks if the process is killed"))

	return &Store{
		root:  absRoot,
		log:   log,
		locks: make(map[string]*sessionLock),
	}, nil
}

// Root returns the absolute path of the process-wide root
func (s *Store) Root() string {
	return s.root
}

// Create starts a new session and stores the upload as original<ext>.
// The upload is fully flushed before Create returns; on any failure the
// session directory is removed and no session exists.
func (s *Store) Create(ctx context.Context, upload io.Reader, originalFilename string) (*Session, error) {
	s.life.RLock()
	defer s.life.RUnlock()
	if s.closed {
		return nil, apperrors.StorageError("create session", errStoreClosed)
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, apperrors.StorageError("generate session id", err)
	}
	sessionID := id.String()

	dir := filepath.Join(s.root, sessionID)
	// MkdirAll tolerates a directory that already exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, translateFSError("create session directory", err)
	}

	storedName := OriginalName(originalFilename)
	size, err := s.writeFile(ctx, dir, storedName, upload)
	if err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			s.log.Warn("failed to remove directory of failed upload",
				zap.String("session_id", sessionID), zap.Error(rmErr))
		}
		return nil, err
	}

	s.log.Debug("session created",
		zap.String("session_id", sessionID),
		zap.String("stored_name", storedName),
		zap.Int64("size", size))

	return &Session{
		ID:               sessionID,
		Dir:              dir,
		OriginalFilename: originalFilename,
		StoredName:       storedName,
		FilePath:         filepath.Join(dir, storedName),
		Size:             size,
		CreatedAt:        time.Now().UTC(),
	}, nil
}

// Resolve returns the absolute path of filename inside the session, only if a
// regular file exists there.
func (s *Store) Resolve(sessionID, filename string) (string, error) {
	if err := ValidateSegment("session_id", sessionID); err != nil {
		return "", err
	}
	if err := ValidateSegment("filename", filename); err != nil {
		return "", err
	}

	p := filepath.Join(s.root, sessionID, filename)
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperrors.NotFound("file", filename).WithDetail("session_id", sessionID)
		}
		return "", translateFSError("stat artifact", err)
	}
	if !info.Mode().IsRegular() {
		return "", apperrors.NotFound("file", filename).WithDetail("session_id", sessionID)
	}

	return p, nil
}

// SessionDir returns the directory of an existing session
func (s *Store) SessionDir(sessionID string) (string, error) {
	if err := ValidateSegment("session_id", sessionID); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, sessionID)
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperrors.NotFound("session", sessionID)
		}
		return "", translateFSError("stat session", err)
	}
	if !info.IsDir() {
		return "", apperrors.NotFound("session", sessionID)
	}

	return dir, nil
}

// List returns the committed artifacts of a session sorted by name
func (s *Store) List(sessionID string) ([]Artifact, error) {
	dir, err := s.SessionDir(sessionID)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, translateFSError("list session", err)
	}

	artifacts := make([]Artifact, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info
			continue
		}
		artifacts = append(artifacts, Artifact{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime().UTC(),
		})
	}

	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Name < artifacts[j].Name })
	return artifacts, nil
}

// WriteArtifact atomically stores data under filename in the session
func (s *Store) WriteArtifact(ctx context.Context, sessionID, filename string, data io.Reader) (int64, error) {
	if err := ValidateSegment("filename", filename); err != nil {
		return 0, err
	}
	dir, err := s.SessionDir(sessionID)
	if err != nil {
		return 0, err
	}
	return s.writeFile(ctx, dir, filename, data)
}

// Lock serializes writers of one session. The returned func releases the lock
// and is safe to call more than once.
func (s *Store) Lock(sessionID string) (func(), error) {
	if err := ValidateSegment("session_id", sessionID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()

			s.mu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(s.locks, sessionID)
			}
			s.mu.Unlock()
		})
	}, nil
}

// Remove deletes a session directory and everything in it. Removing an
// unknown session is not an error.
func (s *Store) Remove(sessionID string) error {
	if err := ValidateSegment("session_id", sessionID); err != nil {
		return err
	}

	unlock, err := s.Lock(sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.RemoveAll(filepath.Join(s.root, sessionID)); err != nil {
		return translateFSError("remove session", err)
	}
	return nil
}

// Teardown removes the root and everything under it. It never fails; errors
// are logged. Calling it again is a no-op apart from a repeated RemoveAll.
func (s *Store) Teardown() {
	s.life.Lock()
	defer s.life.Unlock()
	s.closed = true

	if err := os.RemoveAll(s.root); err != nil {
		s.log.Error("failed to remove session store root", zap.String("root", s.root), zap.Error(err))
		return
	}
	s.log.Info("session store root removed", zap.String("root", s.root))
}

// writeFile copies src into a hidden temp file, fsyncs it and renames it to name
func (s *Store) writeFile(ctx context.Context, dir, name string, src io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(dir, tempPrefix+"*-"+name)
	if err != nil {
		return 0, translateFSError("create temp file", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	n, err := copyWithContext(ctx, tmp, src)
	if err != nil {
		return 0, err
	}

	if err := tmp.Sync(); err != nil {
		return 0, translateFSError("sync file", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, translateFSError("close file", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(dir, name)); err != nil {
		return 0, translateFSError("commit file", err)
	}

	committed = true
	return n, nil
}

// copyWithContext copies until EOF, stopping early when ctx is cancelled.
// Read failures are the client's (aborted upload) and map to InvalidRequest;
// write failures are storage failures.
func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, 32*1024)
	var written int64

	for {
		if err := ctx.Err(); err != nil {
			return written, apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "upload cancelled")
		}

		nr, rerr := src.Read(buf)
		if nr > 0 {
			nw, werr := dst.Write(buf[:nr])
			written += int64(nw)
			if werr != nil {
				return written, translateFSError("write file", werr)
			}
			if nw != nr {
				return written, translateFSError("write file", io.ErrShortWrite)
			}
		}

		if rerr != nil {
			if rerr == io.EOF {
				return written, nil
			}
			return written, apperrors.Wrap(rerr, apperrors.ErrCodeInvalidInput, "upload interrupted")
		}
	}
}

// translateFSError maps a raw filesystem error to a storage error kind
func translateFSError(operation string, err error) error {
	if errors.Is(err, syscall.ENOSPC) {
		return apperrors.Wrap(err, apperrors.ErrCodeResourceExhaust, fmt.Sprintf("storage %s failed: disk full", operation)).
			WithDetail("operation", operation)
	}
	return apperrors.StorageError(operation, err)
}
