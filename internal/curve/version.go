package curve

import (
	"errors"
	"sync"
)

var (
	ErrVersionAlreadySet = errors.New("version already initialized")
	ErrVersionNotSet     = errors.New("version not initialized")
)

// VersionRecord holds a version string that can be set exactly once.
type VersionRecord struct {
	mu    sync.RWMutex
	value string
	set   bool
}

func (v *VersionRecord) Initialize(version string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.set {
		return ErrVersionAlreadySet
	}
	v.value, v.set = version, true
	return nil
}

func (v *VersionRecord) Get() (string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if !v.set {
		return "", ErrVersionNotSet
	}
	return v.value, nil
}
