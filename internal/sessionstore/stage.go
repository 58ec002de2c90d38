package sessionstore

import (
	"os"
	"path/filepath"
)

// Staged is a hidden placeholder an external tool writes an artifact into.
// Commit publishes it under its final name; Discard drops it.
type Staged struct {
	// Path is where the producer must write. It keeps the final extension so
	// tools that infer the format from the name still work.
	Path  string
	Final string
	done  bool
}

// Stage reserves a hidden file in the session for an artifact called filename
func (s *Store) Stage(sessionID, filename string) (*Staged, error) {
	if err := ValidateSegment("filename", filename); err != nil {
		return nil, err
	}
	dir, err := s.SessionDir(sessionID)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(dir, tempPrefix+"*-"+filename)
	if err != nil {
		return nil, translateFSError("stage artifact", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return nil, translateFSError("stage artifact", err)
	}

	return &Staged{
		Path:  tmp.Name(),
		Final: filepath.Join(dir, filename),
	}, nil
}

// Commit flushes the staged file and renames it over the final name
func (st *Staged) Commit() error {
	if st.done {
		return nil
	}

	f, err := os.OpenFile(st.Path, os.O_RDWR, 0)
	if err != nil {
		return translateFSError("open staged artifact", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return translateFSError("sync staged artifact", err)
	}
	if err := f.Close(); err != nil {
		return translateFSError("close staged artifact", err)
	}

	if err := os.Rename(st.Path, st.Final); err != nil {
		return translateFSError("commit artifact", err)
	}
	st.done = true
	return nil
}

// Discard removes the staged file unless it was committed
func (st *Staged) Discard() {
	if st.done {
		return
	}
	_ = os.Remove(st.Path)
	st.done = true
}
